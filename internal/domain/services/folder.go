package services

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/httputil"
)

// CreateFolderRequest is the request to create a folder.
type CreateFolderRequest struct {
	UserID   string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// UpdateFolderRequest is the request to rename and/or move a folder.
// ParentID is tri-state: absent = keep, null = move to root, id = move.
type UpdateFolderRequest struct {
	UserID   string                  `json:"-"`
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// FolderService manages folder create/rename/move/delete. Every mutation is
// validated against the forest invariants and committed in one transaction.
type FolderService interface {
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)
	GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)
	UpdateFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder removes the folder and every descendant folder and
	// subscription beneath it.
	DeleteFolder(ctx context.Context, userID, folderID string) error
}
