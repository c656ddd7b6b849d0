package repositories

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
)

// SubscriptionRepository defines data access operations for subscriptions.
// All operations are scoped to the owning user.
type SubscriptionRepository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *models.Subscription) error

	// GetByID retrieves a subscription by ID
	GetByID(ctx context.Context, id, userID string) (*models.Subscription, error)

	// Update updates a subscription's name and parent
	Update(ctx context.Context, sub *models.Subscription) error

	// Delete deletes a subscription. Its videos go with it via the store's
	// foreign-key cascade.
	Delete(ctx context.Context, id, userID string) error

	// ListByParent lists subscriptions directly under a folder; nil parentID
	// lists root-level subscriptions
	ListByParent(ctx context.Context, parentID *string, userID string) ([]models.Subscription, error)

	// GetAllByUser retrieves all subscriptions owned by a user (flat list)
	GetAllByUser(ctx context.Context, userID string) ([]models.Subscription, error)
}
