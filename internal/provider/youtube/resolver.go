// Package youtube implements the content resolver against the YouTube
// Data API v3. URL classification is pure parsing; metadata fetches go to
// the API with a timeout owned by this package, so callers only ever see
// a classification error or a provider failure.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/J-tt/ytsm/internal/domain/services"
)

// ErrNoResult is returned when the API answers but carries no items.
var ErrNoResult = errors.New("no result from youtube api")

const fetchTimeout = 15 * time.Second

// Resolver implements services.ContentResolver using YouTube Data API v3.
type Resolver struct {
	service *youtubeapi.Service
	logger  *slog.Logger
}

// NewResolver creates a resolver authenticated with an API key.
func NewResolver(ctx context.Context, apiKey string, logger *slog.Logger) (*Resolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key required")
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Resolver{service: service, logger: logger}, nil
}

// ClassifyURL parses a user-supplied URL into a playlist or channel
// reference. Recognized forms:
//
//	.../playlist?list=<id>          playlist
//	.../channel/<id>                channel by canonical id
//	.../user/<name>                 channel by legacy username
//	.../c/<name>                    channel by custom name
//	.../@<handle>                   channel by handle
func (r *Resolver) ClassifyURL(raw string) (services.URLReference, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return services.URLReference{}, fmt.Errorf("parse url: %w", err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	host = strings.TrimPrefix(host, "m.")
	if host != "youtube.com" {
		return services.URLReference{}, fmt.Errorf("unsupported host %q", u.Hostname())
	}

	if list := u.Query().Get("list"); list != "" {
		return services.URLReference{Kind: services.URLPlaylist, ExternalID: list}, nil
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return services.URLReference{}, errors.New("url carries no channel or playlist reference")
	}

	switch {
	case segments[0] == "channel" && len(segments) > 1:
		return services.URLReference{Kind: services.URLChannelID, ExternalID: segments[1]}, nil
	case segments[0] == "user" && len(segments) > 1:
		return services.URLReference{Kind: services.URLChannelUser, ExternalID: segments[1]}, nil
	case segments[0] == "c" && len(segments) > 1:
		return services.URLReference{Kind: services.URLChannelCustom, ExternalID: segments[1]}, nil
	case strings.HasPrefix(segments[0], "@"):
		return services.URLReference{Kind: services.URLChannelCustom, ExternalID: segments[0]}, nil
	}

	return services.URLReference{}, fmt.Errorf("unrecognized path %q", u.Path)
}

// FetchChannel fetches channel metadata by id, username, or handle.
func (r *Resolver) FetchChannel(ctx context.Context, kind services.URLKind, externalID string) (*services.ChannelMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	call := r.service.Channels.List([]string{"snippet", "contentDetails"}).Context(ctx)
	switch kind {
	case services.URLChannelID:
		call = call.Id(externalID)
	case services.URLChannelUser:
		call = call.ForUsername(externalID)
	case services.URLChannelCustom:
		call = call.ForHandle(externalID)
	default:
		return nil, fmt.Errorf("kind %q is not a channel reference", kind)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("channels.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s: %w", externalID, ErrNoResult)
	}

	item := resp.Items[0]
	meta := &services.ChannelMetadata{
		ChannelID: item.Id,
		Name:      item.Snippet.Title,
	}
	meta.Description = item.Snippet.Description
	meta.IconDefault, meta.IconBest = thumbnailURLs(item.Snippet.Thumbnails)
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		meta.UploadPlaylistID = item.ContentDetails.RelatedPlaylists.Uploads
	}

	r.logger.Debug("channel fetched", "channel_id", meta.ChannelID, "name", meta.Name)
	return meta, nil
}

// FetchPlaylist fetches playlist metadata by playlist id.
func (r *Resolver) FetchPlaylist(ctx context.Context, playlistID string) (*services.PlaylistMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	resp, err := r.service.Playlists.List([]string{"snippet"}).Id(playlistID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("playlists.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, ErrNoResult)
	}

	item := resp.Items[0]
	meta := &services.PlaylistMetadata{
		PlaylistID:  item.Id,
		ChannelID:   item.Snippet.ChannelId,
		Name:        item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	meta.IconDefault, meta.IconBest = thumbnailURLs(item.Snippet.Thumbnails)

	r.logger.Debug("playlist fetched", "playlist_id", meta.PlaylistID, "channel_id", meta.ChannelID)
	return meta, nil
}

// thumbnailURLs picks the default and best-quality thumbnail urls.
func thumbnailURLs(t *youtubeapi.ThumbnailDetails) (string, string) {
	if t == nil {
		return "", ""
	}

	var def string
	if t.Default != nil {
		def = t.Default.Url
	}

	best := def
	for _, candidate := range []*youtubeapi.Thumbnail{t.Medium, t.High, t.Standard, t.Maxres} {
		if candidate != nil {
			best = candidate.Url
		}
	}

	return def, best
}
