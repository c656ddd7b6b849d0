package models

// NodeKind tags the variant held by a TreeNode.
type NodeKind string

const (
	KindFolder       NodeKind = "folder"
	KindSubscription NodeKind = "sub"
)

// TreeNode is a tagged variant over the two node kinds that share a level
// in the hierarchy. Exactly one of Folder/Subscription is set, matching
// Kind. The accessors give validation and traversal a uniform view of
// "display name" and "parent id" without runtime type inspection.
type TreeNode struct {
	Kind         NodeKind
	Folder       *Folder
	Subscription *Subscription
}

// FolderNode wraps a folder as a TreeNode.
func FolderNode(f *Folder) TreeNode {
	return TreeNode{Kind: KindFolder, Folder: f}
}

// SubscriptionNode wraps a subscription as a TreeNode.
func SubscriptionNode(s *Subscription) TreeNode {
	return TreeNode{Kind: KindSubscription, Subscription: s}
}

// ID returns the internal id of the wrapped node.
func (n TreeNode) ID() string {
	if n.Kind == KindFolder {
		return n.Folder.ID
	}
	return n.Subscription.ID
}

// Name returns the display name of the wrapped node.
func (n TreeNode) Name() string {
	if n.Kind == KindFolder {
		return n.Folder.Name
	}
	return n.Subscription.Name
}

// UserID returns the owner of the wrapped node.
func (n TreeNode) UserID() string {
	if n.Kind == KindFolder {
		return n.Folder.UserID
	}
	return n.Subscription.UserID
}

// ParentID returns the parent folder id, nil at root level.
func (n TreeNode) ParentID() *string {
	if n.Kind == KindFolder {
		return n.Folder.ParentID
	}
	return n.Subscription.ParentID
}

// TreeID returns the kind-prefixed external id used in flattened tree
// payloads, so folder and subscription ids stay distinguishable even
// though they share an id space internally.
func (n TreeNode) TreeID() string {
	return string(n.Kind) + "-" + n.ID()
}

// Tree is the nested folder/subscription hierarchy returned for display.
type Tree struct {
	Folders       []*FolderTreeNode      `json:"folders"`
	Subscriptions []SubscriptionTreeNode `json:"subscriptions"`
}

// FolderTreeNode is a folder in the display tree with nested children.
type FolderTreeNode struct {
	ID            string                 `json:"id"` // prefixed tree id
	Name          string                 `json:"name"`
	ParentID      *string                `json:"parent_id"`
	Folders       []*FolderTreeNode      `json:"folders"`
	Subscriptions []SubscriptionTreeNode `json:"subscriptions"`
}

// SubscriptionTreeNode is a subscription leaf in the display tree.
type SubscriptionTreeNode struct {
	ID          string  `json:"id"` // prefixed tree id
	Name        string  `json:"name"`
	ParentID    *string `json:"parent_id"`
	IconDefault string  `json:"icon"`
}
