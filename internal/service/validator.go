package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
)

// TreeValidator enforces the forest invariants: sibling names stay unique
// under a parent and the parent chain stays acyclic. It is a pure decision
// function over the current store state plus the proposed change; it must
// run inside the same transaction that commits the mutation, before the
// write.
type TreeValidator struct {
	folderRepo repositories.FolderRepository
	subRepo    repositories.SubscriptionRepository
}

// NewTreeValidator creates a new tree validator
func NewTreeValidator(folderRepo repositories.FolderRepository, subRepo repositories.SubscriptionRepository) *TreeValidator {
	return &TreeValidator{folderRepo: folderRepo, subRepo: subRepo}
}

// Validate checks a proposed name/parent for a node. newParentID nil means
// root level. Returns a ConflictError on a duplicate sibling name, a
// CycleError when the proposed parent chain leads back to the node, or a
// wrapped ErrNotFound when the proposed parent does not exist for this
// owner.
func (v *TreeValidator) Validate(ctx context.Context, node models.TreeNode, newName string, newParentID *string) error {
	name := strings.TrimSpace(newName)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}

	if err := v.checkSiblingNames(ctx, node, name, newParentID); err != nil {
		return err
	}
	return v.checkNoCycle(ctx, node, newParentID)
}

// checkSiblingNames scans every node under the proposed parent. Folders and
// subscriptions share one namespace per level; the comparison is
// case-insensitive everywhere.
func (v *TreeValidator) checkSiblingNames(ctx context.Context, node models.TreeNode, name string, parentID *string) error {
	userID := node.UserID()

	folders, err := v.folderRepo.ListChildren(ctx, parentID, userID)
	if err != nil {
		return fmt.Errorf("list sibling folders: %w", err)
	}
	for _, f := range folders {
		if node.Kind == models.KindFolder && f.ID == node.ID() {
			continue
		}
		if strings.EqualFold(f.Name, name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", f.Name),
				ResourceType: "folder",
				ResourceID:   f.ID,
			}
		}
	}

	subs, err := v.subRepo.ListByParent(ctx, parentID, userID)
	if err != nil {
		return fmt.Errorf("list sibling subscriptions: %w", err)
	}
	for _, s := range subs {
		if node.Kind == models.KindSubscription && s.ID == node.ID() {
			continue
		}
		if strings.EqualFold(s.Name, name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a subscription named %q already exists in this location", s.Name),
				ResourceType: "subscription",
				ResourceID:   s.ID,
			}
		}
	}

	return nil
}

// checkNoCycle walks the parent chain from the proposed parent with a
// visited set. Reaching the node itself, or any id twice, means the move
// would create a cycle. The walk is bounded by the folder count because
// each folder id is visited at most once.
func (v *TreeValidator) checkNoCycle(ctx context.Context, node models.TreeNode, parentID *string) error {
	visited := map[string]struct{}{}
	if node.Kind == models.KindFolder {
		visited[node.ID()] = struct{}{}
	}

	current := parentID
	for current != nil {
		if _, seen := visited[*current]; seen {
			return &domain.CycleError{NodeID: node.ID()}
		}
		visited[*current] = struct{}{}

		parent, err := v.folderRepo.GetByID(ctx, *current, node.UserID())
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("parent folder %s: %w", *current, domain.ErrNotFound)
			}
			return fmt.Errorf("walk parent chain: %w", err)
		}
		current = parent.ParentID
	}

	return nil
}
