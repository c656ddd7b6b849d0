package services

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
)

// Subtree is the set of nodes reachable from a root folder (or the whole
// forest). Folders appear in visit order, root first, so callers needing
// bottom-up processing can walk the slice in reverse.
type Subtree struct {
	Folders       []models.Folder
	Subscriptions []models.Subscription
}

// TreeService traverses the folder forest. Traversals are read-only,
// restartable, and visit every reachable node exactly once.
type TreeService interface {
	// CollectSubtree collects the folders and subscriptions reachable from
	// rootFolderID; nil collects the user's entire forest.
	CollectSubtree(ctx context.Context, userID string, rootFolderID *string) (*Subtree, error)

	// BuildTree returns the nested folder/subscription tree for display,
	// nodes carrying kind-prefixed ids and parent linkage.
	BuildTree(ctx context.Context, userID string) (*models.Tree, error)
}
