package service

import (
	"context"
	"log/slog"

	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
	"github.com/J-tt/ytsm/internal/domain/services"
)

type videoService struct {
	videoRepo repositories.VideoRepository
	subRepo   repositories.SubscriptionRepository
	treeSvc   services.TreeService
	logger    *slog.Logger
}

// NewVideoService creates a new video service
func NewVideoService(
	videoRepo repositories.VideoRepository,
	subRepo repositories.SubscriptionRepository,
	treeSvc services.TreeService,
	logger *slog.Logger,
) services.VideoService {
	return &videoService{
		videoRepo: videoRepo,
		subRepo:   subRepo,
		treeSvc:   treeSvc,
		logger:    logger,
	}
}

// ListVideos resolves the filter's scope to a concrete subscription-id set
// first - single subscription, folder subtree via the navigator, or every
// subscription the user owns - then delegates filtering and ordering to
// the store.
func (s *videoService) ListVideos(ctx context.Context, userID string, filter models.VideoFilter) ([]models.Video, error) {
	var subIDs []string

	switch {
	case filter.SubscriptionID != nil:
		sub, err := s.subRepo.GetByID(ctx, *filter.SubscriptionID, userID)
		if err != nil {
			return nil, err
		}
		subIDs = []string{sub.ID}

	case filter.FolderID != nil:
		subtree, err := s.treeSvc.CollectSubtree(ctx, userID, filter.FolderID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subtree.Subscriptions {
			subIDs = append(subIDs, sub.ID)
		}

	default:
		subs, err := s.subRepo.GetAllByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			subIDs = append(subIDs, sub.ID)
		}
	}

	if len(subIDs) == 0 {
		return []models.Video{}, nil
	}

	videos, err := s.videoRepo.ListBySubscriptions(ctx, subIDs, filter)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []models.Video{}
	}

	s.logger.Debug("videos listed",
		"user_id", userID,
		"subscriptions", len(subIDs),
		"videos", len(videos),
	)

	return videos, nil
}
