package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
	"github.com/J-tt/ytsm/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	subRepo    repositories.SubscriptionRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	subRepo repositories.SubscriptionRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		subRepo:    subRepo,
		logger:     logger,
	}
}

// CollectSubtree collects the folders and subscriptions reachable from
// rootFolderID using an explicit worklist, so stack depth stays constant
// regardless of tree depth. The forest is acyclic (validator invariant), so
// the queue drains; every node is visited exactly once. Folders come back
// in visit order, root first.
func (s *treeService) CollectSubtree(ctx context.Context, userID string, rootFolderID *string) (*services.Subtree, error) {
	if rootFolderID == nil {
		return s.collectForest(ctx, userID)
	}

	root, err := s.folderRepo.GetByID(ctx, *rootFolderID, userID)
	if err != nil {
		return nil, err
	}

	result := &services.Subtree{}
	queue := []models.Folder{*root}

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]
		result.Folders = append(result.Folders, folder)

		subs, err := s.subRepo.ListByParent(ctx, &folder.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions of %s: %w", folder.ID, err)
		}
		result.Subscriptions = append(result.Subscriptions, subs...)

		children, err := s.folderRepo.ListChildren(ctx, &folder.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", folder.ID, err)
		}
		queue = append(queue, children...)
	}

	return result, nil
}

// collectForest returns every folder and subscription the user owns. Two
// flat reads cover the whole forest; no traversal is needed since
// completeness, not order, is what callers rely on here.
func (s *treeService) collectForest(ctx context.Context, userID string) (*services.Subtree, error) {
	folders, err := s.folderRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &services.Subtree{Folders: folders, Subscriptions: subs}, nil
}

// BuildTree builds the nested folder/subscription tree for display using a
// 3-pass build over two flat queries.
func (s *treeService) BuildTree(ctx context.Context, userID string) (*models.Tree, error) {
	forest, err := s.collectForest(ctx, userID)
	if err != nil {
		return nil, err
	}

	// First pass: create all folder nodes
	folderMap := make(map[string]*models.FolderTreeNode)
	var rootFolderIDs []string
	for _, folder := range forest.Folders {
		node := models.FolderNode(&folder)
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:            node.TreeID(),
			Name:          folder.Name,
			ParentID:      treeParentID(folder.ParentID),
			Folders:       []*models.FolderTreeNode{},
			Subscriptions: []models.SubscriptionTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents
	for _, folder := range forest.Folders {
		if folder.ParentID == nil {
			rootFolderIDs = append(rootFolderIDs, folder.ID)
		} else if parent, exists := folderMap[*folder.ParentID]; exists {
			parent.Folders = append(parent.Folders, folderMap[folder.ID])
		}
	}

	// Third pass: attach subscription leaves
	rootSubs := make([]models.SubscriptionTreeNode, 0)
	for i := range forest.Subscriptions {
		sub := &forest.Subscriptions[i]
		subNode := models.SubscriptionTreeNode{
			ID:          models.SubscriptionNode(sub).TreeID(),
			Name:        sub.Name,
			ParentID:    treeParentID(sub.ParentID),
			IconDefault: sub.IconDefault,
		}

		if sub.ParentID == nil {
			rootSubs = append(rootSubs, subNode)
		} else if parent, exists := folderMap[*sub.ParentID]; exists {
			parent.Subscriptions = append(parent.Subscriptions, subNode)
		}
	}

	rootFolders := make([]*models.FolderTreeNode, 0, len(rootFolderIDs))
	for _, id := range rootFolderIDs {
		rootFolders = append(rootFolders, folderMap[id])
	}

	s.logger.Debug("tree built",
		"user_id", userID,
		"folder_count", len(forest.Folders),
		"subscription_count", len(forest.Subscriptions),
	)

	return &models.Tree{Folders: rootFolders, Subscriptions: rootSubs}, nil
}

// treeParentID converts a raw parent folder id into its prefixed tree id
func treeParentID(parentID *string) *string {
	if parentID == nil {
		return nil
	}
	id := string(models.KindFolder) + "-" + *parentID
	return &id
}
