package models

import (
	"time"
)

// Folder is a named grouping node in the subscription hierarchy. Folders
// nest via ParentID; NULL means root level. The parent chain must stay
// acyclic and sibling names unique - both enforced by the tree validator
// before any commit.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
