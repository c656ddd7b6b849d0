package service

import (
	"context"
	"errors"
	"testing"

	"github.com/J-tt/ytsm/internal/domain"
)

// seedTreeFixture builds:
//
//	root (folder)
//	├── s1 (sub)
//	└── child (folder)
//	    └── grand (folder)
//	        └── s2 (sub)
//	s3 (sub, root level)
//
// plus one folder owned by another user.
func seedTreeFixture(env *testEnv) {
	env.addFolder("root", "u1", "Root", nil)
	env.addFolder("child", "u1", "Child", strPtr("root"))
	env.addFolder("grand", "u1", "Grand", strPtr("child"))
	env.addSub("s1", "u1", "First", strPtr("root"))
	env.addSub("s2", "u1", "Second", strPtr("grand"))
	env.addSub("s3", "u1", "Loose", nil)
	env.addFolder("other", "u2", "Other", nil)
}

func TestTreeService_CollectSubtree(t *testing.T) {
	env := newTestEnv()
	seedTreeFixture(env)
	ctx := context.Background()

	subtree, err := env.treeSvc.CollectSubtree(ctx, "u1", strPtr("root"))
	if err != nil {
		t.Fatalf("CollectSubtree failed: %v", err)
	}

	if len(subtree.Folders) != 3 {
		t.Fatalf("got %d folders, want 3", len(subtree.Folders))
	}
	if subtree.Folders[0].ID != "root" {
		t.Errorf("first folder = %s, want root (visit order starts at the root)", subtree.Folders[0].ID)
	}

	if len(subtree.Subscriptions) != 2 {
		t.Fatalf("got %d subscriptions, want 2", len(subtree.Subscriptions))
	}
	seen := map[string]bool{}
	for _, s := range subtree.Subscriptions {
		seen[s.ID] = true
	}
	if !seen["s1"] || !seen["s2"] || seen["s3"] {
		t.Errorf("subscription set = %v, want s1 and s2 only", seen)
	}

	// Parents always precede their children in the returned order, so a
	// reverse walk deletes leaves first.
	pos := map[string]int{}
	for i, f := range subtree.Folders {
		pos[f.ID] = i
	}
	if pos["child"] > pos["grand"] {
		t.Errorf("child at %d after grand at %d", pos["child"], pos["grand"])
	}
}

func TestTreeService_CollectSubtree_Restartable(t *testing.T) {
	env := newTestEnv()
	seedTreeFixture(env)
	ctx := context.Background()

	first, err := env.treeSvc.CollectSubtree(ctx, "u1", strPtr("root"))
	if err != nil {
		t.Fatalf("first traversal failed: %v", err)
	}
	second, err := env.treeSvc.CollectSubtree(ctx, "u1", strPtr("root"))
	if err != nil {
		t.Fatalf("second traversal failed: %v", err)
	}

	if len(first.Folders) != len(second.Folders) || len(first.Subscriptions) != len(second.Subscriptions) {
		t.Errorf("traversal not stable: %d/%d folders, %d/%d subscriptions",
			len(first.Folders), len(second.Folders), len(first.Subscriptions), len(second.Subscriptions))
	}
}

func TestTreeService_CollectSubtree_Leaf(t *testing.T) {
	env := newTestEnv()
	seedTreeFixture(env)

	subtree, err := env.treeSvc.CollectSubtree(context.Background(), "u1", strPtr("grand"))
	if err != nil {
		t.Fatalf("CollectSubtree failed: %v", err)
	}
	if len(subtree.Folders) != 1 || subtree.Folders[0].ID != "grand" {
		t.Errorf("folders = %v, want just grand", subtree.Folders)
	}
	if len(subtree.Subscriptions) != 1 || subtree.Subscriptions[0].ID != "s2" {
		t.Errorf("subscriptions = %v, want just s2", subtree.Subscriptions)
	}
}

func TestTreeService_CollectSubtree_WholeForest(t *testing.T) {
	env := newTestEnv()
	seedTreeFixture(env)

	subtree, err := env.treeSvc.CollectSubtree(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("CollectSubtree failed: %v", err)
	}
	if len(subtree.Folders) != 3 {
		t.Errorf("got %d folders, want 3 (other user's folder excluded)", len(subtree.Folders))
	}
	if len(subtree.Subscriptions) != 3 {
		t.Errorf("got %d subscriptions, want 3", len(subtree.Subscriptions))
	}
}

func TestTreeService_CollectSubtree_MissingRoot(t *testing.T) {
	env := newTestEnv()
	seedTreeFixture(env)

	_, err := env.treeSvc.CollectSubtree(context.Background(), "u1", strPtr("ghost"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}

	// A folder exists under that id for another user; scoping must hide it.
	_, err = env.treeSvc.CollectSubtree(context.Background(), "u1", strPtr("other"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found for foreign folder, got %v", err)
	}
}

func TestTreeService_BuildTree(t *testing.T) {
	env := newTestEnv()
	seedTreeFixture(env)

	tree, err := env.treeSvc.BuildTree(context.Background(), "u1")
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	if len(tree.Folders) != 1 {
		t.Fatalf("got %d root folders, want 1", len(tree.Folders))
	}
	root := tree.Folders[0]
	if root.ID != "folder-root" {
		t.Errorf("root id = %s, want folder-root", root.ID)
	}
	if root.ParentID != nil {
		t.Errorf("root parent = %v, want nil", root.ParentID)
	}

	if len(root.Subscriptions) != 1 || root.Subscriptions[0].ID != "sub-s1" {
		t.Fatalf("root subscriptions = %v, want [sub-s1]", root.Subscriptions)
	}
	if len(root.Folders) != 1 || root.Folders[0].ID != "folder-child" {
		t.Fatalf("root children = %v, want [folder-child]", root.Folders)
	}

	child := root.Folders[0]
	if child.ParentID == nil || *child.ParentID != "folder-root" {
		t.Errorf("child parent = %v, want folder-root", child.ParentID)
	}
	if len(child.Folders) != 1 || child.Folders[0].ID != "folder-grand" {
		t.Fatalf("child children = %v, want [folder-grand]", child.Folders)
	}

	grand := child.Folders[0]
	if len(grand.Subscriptions) != 1 || grand.Subscriptions[0].ID != "sub-s2" {
		t.Errorf("grand subscriptions = %v, want [sub-s2]", grand.Subscriptions)
	}

	if len(tree.Subscriptions) != 1 || tree.Subscriptions[0].ID != "sub-s3" {
		t.Errorf("root-level subscriptions = %v, want [sub-s3]", tree.Subscriptions)
	}
}

func TestTreeService_BuildTree_Empty(t *testing.T) {
	env := newTestEnv()

	tree, err := env.treeSvc.BuildTree(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	if len(tree.Folders) != 0 || len(tree.Subscriptions) != 0 {
		t.Errorf("expected empty tree, got %+v", tree)
	}
}
