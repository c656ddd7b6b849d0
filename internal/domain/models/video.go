package models

import (
	"time"
)

// Video belongs to a Subscription. Rows are produced by the external
// ingestion process; this system only reads and filters them.
type Video struct {
	ID             string    `json:"id" db:"id"`
	SubscriptionID string    `json:"subscription_id" db:"subscription_id"`
	VideoID        string    `json:"video_id" db:"video_id"` // external id
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	PublishDate    time.Time `json:"publish_date" db:"publish_date"`
	Views          int64     `json:"views" db:"views"`
	Rating         float64   `json:"rating" db:"rating"`
	PlaylistIndex  int       `json:"playlist_index" db:"playlist_index"`
	Watched        bool      `json:"watched" db:"watched"`
	Downloaded     bool      `json:"downloaded" db:"downloaded"`
}

// VideoSort selects the ordering of a video listing.
type VideoSort string

const (
	SortNewest          VideoSort = "newest"
	SortOldest          VideoSort = "oldest"
	SortPlaylist        VideoSort = "playlist"
	SortPlaylistReverse VideoSort = "playlist_reverse"
	SortPopularity      VideoSort = "popularity"
	SortRating          VideoSort = "rating"
)

// VideoFilter narrows and orders a video listing. Watched and Downloaded
// are tri-state: nil means "either". SubscriptionID scopes to a single
// subscription; FolderID scopes to that folder's entire subtree; with
// neither set, every subscription the user owns is in scope.
type VideoFilter struct {
	Query          string
	Watched        *bool
	Downloaded     *bool
	SubscriptionID *string
	FolderID       *string
	Sort           VideoSort
}
