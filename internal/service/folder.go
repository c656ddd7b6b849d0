package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/J-tt/ytsm/internal/config"
	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
	"github.com/J-tt/ytsm/internal/domain/services"
)

var nameFormat = regexp.MustCompile(`^[^/]+$`)

// nameRules are the ozzo rules shared by folder and subscription names.
func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(1, config.MaxNameLength),
		validation.Match(nameFormat).Error("name cannot contain slashes"),
	}
}

type folderService struct {
	folderRepo repositories.FolderRepository
	subRepo    repositories.SubscriptionRepository
	treeSvc    services.TreeService
	validator  *TreeValidator
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	subRepo repositories.SubscriptionRepository,
	treeSvc services.TreeService,
	validator *TreeValidator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		subRepo:    subRepo,
		treeSvc:    treeSvc,
		validator:  validator,
		txManager:  txManager,
		logger:     logger,
	}
}

// CreateFolder creates a new folder under the requested parent. Validation
// and the insert share one transaction so concurrent mutations cannot slip
// between the check and the write.
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if err := validation.Validate(req.Name, nameRules()...); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		ParentID:  req.ParentID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.validator.Validate(txCtx, models.FolderNode(folder), folder.Name, folder.ParentID); err != nil {
			return err
		}
		return s.folderRepo.Create(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"user_id", req.UserID,
	)

	return folder, nil
}

// GetFolder retrieves a folder owned by the user
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, folderID, userID)
}

// UpdateFolder renames and/or moves a folder
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name == nil && !req.ParentID.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	if req.Name != nil {
		if err := validation.Validate(*req.Name, nameRules()...); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	var folder *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(txCtx, folderID, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			folder.Name = strings.TrimSpace(*req.Name)
		}
		if req.ParentID.Present {
			folder.ParentID = req.ParentID.Value // nil = move to root
		}

		if err := s.validator.Validate(txCtx, models.FolderNode(folder), folder.Name, folder.ParentID); err != nil {
			return err
		}

		folder.UpdatedAt = time.Now()
		return s.folderRepo.Update(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder and everything beneath it. The subtree is
// collected with the navigator's worklist traversal; subscriptions go
// first, then folders deepest-first, all in one transaction so no orphaned
// subscription with a dangling parent survives a partial failure.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		subtree, err := s.treeSvc.CollectSubtree(txCtx, userID, &folderID)
		if err != nil {
			return err
		}

		for _, sub := range subtree.Subscriptions {
			if err := s.subRepo.Delete(txCtx, sub.ID, userID); err != nil {
				return fmt.Errorf("delete subscription %q: %w", sub.Name, err)
			}
		}

		// Folders come back in visit order, root first; deleting in
		// reverse removes children before their parents.
		for i := len(subtree.Folders) - 1; i >= 0; i-- {
			if err := s.folderRepo.Delete(txCtx, subtree.Folders[i].ID, userID); err != nil {
				return fmt.Errorf("delete folder %q: %w", subtree.Folders[i].Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folderID, "user_id", userID)
	return nil
}
