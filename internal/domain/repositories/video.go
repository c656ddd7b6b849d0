package repositories

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
)

// VideoRepository defines read access to videos. Video rows are written by
// the external ingestion process, never by this system.
type VideoRepository interface {
	// ListBySubscriptions returns videos belonging to the given
	// subscriptions, filtered and ordered per the filter. An empty id set
	// yields an empty result. Ordering is deterministic: the sort key is
	// always tie-broken by id.
	ListBySubscriptions(ctx context.Context, subscriptionIDs []string, filter models.VideoFilter) ([]models.Video, error)
}
