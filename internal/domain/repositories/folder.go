package repositories

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// All operations are scoped to the owning user.
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id, userID string) (*models.Folder, error)

	// Update updates a folder's name and parent
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a single folder row (cascade is handled by the service)
	Delete(ctx context.Context, id, userID string) error

	// ListChildren lists immediate child folders; nil parentID lists root level
	ListChildren(ctx context.Context, parentID *string, userID string) ([]models.Folder, error)

	// GetAllByUser retrieves all folders owned by a user (flat list)
	GetAllByUser(ctx context.Context, userID string) ([]models.Folder, error)
}
