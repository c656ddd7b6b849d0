package services

import (
	"context"
)

// URLKind classifies what a user-supplied URL points at.
type URLKind string

const (
	// URLPlaylist is a direct playlist reference
	URLPlaylist URLKind = "playlist"
	// URLChannelID is a channel referenced by its canonical id
	URLChannelID URLKind = "channel_id"
	// URLChannelUser is a channel referenced by legacy username
	URLChannelUser URLKind = "channel_user"
	// URLChannelCustom is a channel referenced by custom handle
	URLChannelCustom URLKind = "channel_custom"
)

// IsChannel reports whether the kind is any of the channel reference forms.
func (k URLKind) IsChannel() bool {
	return k == URLChannelID || k == URLChannelUser || k == URLChannelCustom
}

// URLReference is the result of classifying a user-supplied URL.
type URLReference struct {
	Kind       URLKind
	ExternalID string
}

// ChannelMetadata is the provider's view of a channel.
type ChannelMetadata struct {
	ChannelID        string
	Name             string
	Description      string
	UploadPlaylistID string
	IconDefault      string
	IconBest         string
}

// PlaylistMetadata is the provider's view of a playlist.
type PlaylistMetadata struct {
	PlaylistID  string
	ChannelID   string // owning channel, used to resolve the Channel record
	Name        string
	Description string
	IconDefault string
	IconBest    string
}

// ContentResolver classifies URLs and fetches channel/playlist metadata from
// the external content provider. Implementations own their network timeouts;
// any fetch failure is surfaced by the ingestor as domain.ErrProvider.
// ClassifyURL failures on unrecognized forms are surfaced as
// domain.ErrValidation.
type ContentResolver interface {
	// ClassifyURL parses a user-supplied URL into a playlist or channel
	// reference
	ClassifyURL(url string) (URLReference, error)

	// FetchChannel fetches channel metadata. The id form matches the
	// URLKind it was classified as (id, username, or custom handle).
	FetchChannel(ctx context.Context, kind URLKind, externalID string) (*ChannelMetadata, error)

	// FetchPlaylist fetches playlist metadata by playlist id
	FetchPlaylist(ctx context.Context, playlistID string) (*PlaylistMetadata, error)
}
