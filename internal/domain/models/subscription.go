package models

import (
	"time"
)

// Subscription is a leaf in the folder hierarchy: a followed external
// playlist (or a channel's uploads playlist) placed under a Folder or at
// root. It shares the sibling-uniqueness rules with folders at its level.
type Subscription struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	ChannelID   string    `json:"channel_id" db:"channel_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	PlaylistID  string    `json:"playlist_id" db:"playlist_id"`
	IconDefault string    `json:"icon_default" db:"icon_default"`
	IconBest    string    `json:"icon_best" db:"icon_best"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
