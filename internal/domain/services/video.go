package services

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
)

// VideoService lists videos scoped to a subscription, a folder subtree, or
// everything the user owns, filtered and sorted per the filter.
type VideoService interface {
	ListVideos(ctx context.Context, userID string, filter models.VideoFilter) ([]models.Video, error)
}
