package models

import (
	"time"
)

// Channel is the deduplicated record of an external provider channel.
// ChannelID (the provider's id) is unique in the store: resolving the same
// external channel twice reuses the existing row. Channels are shared
// between users and never deleted by this system.
type Channel struct {
	ID               string    `json:"id" db:"id"`
	ChannelID        string    `json:"channel_id" db:"channel_id"` // external id, unique
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	UploadPlaylistID string    `json:"upload_playlist_id" db:"upload_playlist_id"`
	IconDefault      string    `json:"icon_default" db:"icon_default"`
	IconBest         string    `json:"icon_best" db:"icon_best"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
