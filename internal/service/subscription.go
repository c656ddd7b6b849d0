package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
	"github.com/J-tt/ytsm/internal/domain/services"
)

type subscriptionService struct {
	subRepo     repositories.SubscriptionRepository
	folderRepo  repositories.FolderRepository
	channelRepo repositories.ChannelRepository
	resolver    services.ContentResolver
	validator   *TreeValidator
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	folderRepo repositories.FolderRepository,
	channelRepo repositories.ChannelRepository,
	resolver services.ContentResolver,
	validator *TreeValidator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.SubscriptionService {
	return &subscriptionService{
		subRepo:     subRepo,
		folderRepo:  folderRepo,
		channelRepo: channelRepo,
		resolver:    resolver,
		validator:   validator,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateSubscription runs the ingestion pipeline. Provider fetches happen
// before the transaction opens; the transaction covers channel
// get-or-create, tree validation and the subscription insert, so a provider
// failure commits nothing and a validation failure rolls everything back.
func (s *subscriptionService) CreateSubscription(ctx context.Context, req *services.CreateSubscriptionRequest) (*models.Subscription, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if err := validation.Validate(req.URL, validation.Required); err != nil {
		return nil, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}

	// Parent must exist and belong to the requesting owner
	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("parent folder %s: %w", *req.ParentID, domain.ErrNotFound)
			}
			return nil, err
		}
	}

	ref, err := s.resolver.ClassifyURL(req.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized url %q: %v", domain.ErrValidation, req.URL, err)
	}

	now := time.Now()
	sub := &models.Subscription{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		ParentID:  req.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var resolved *resolvedChannel
	if ref.Kind == services.URLPlaylist {
		playlist, err := s.resolver.FetchPlaylist(ctx, ref.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch playlist %s: %v", domain.ErrProvider, ref.ExternalID, err)
		}

		resolved, err = s.resolveChannel(ctx, services.URLChannelID, playlist.ChannelID)
		if err != nil {
			return nil, err
		}

		// Subscription fields come from the playlist itself
		sub.Name = playlist.Name
		sub.Description = playlist.Description
		sub.PlaylistID = playlist.PlaylistID
		sub.IconDefault = playlist.IconDefault
		sub.IconBest = playlist.IconBest
	} else {
		resolved, err = s.resolveChannel(ctx, ref.Kind, ref.ExternalID)
		if err != nil {
			return nil, err
		}

		// A channel's uploads playlist carries no metadata of its own,
		// so the subscription mirrors the channel
		sub.Name = resolved.channel.Name
		sub.Description = resolved.channel.Description
		sub.PlaylistID = resolved.channel.UploadPlaylistID
		sub.IconDefault = resolved.channel.IconDefault
		sub.IconBest = resolved.channel.IconBest
	}

	commit := func(txCtx context.Context) error {
		channel, err := s.commitChannel(txCtx, resolved)
		if err != nil {
			return err
		}
		sub.ChannelID = channel.ID

		if err := s.validator.Validate(txCtx, models.SubscriptionNode(sub), sub.Name, sub.ParentID); err != nil {
			return err
		}
		return s.subRepo.Create(txCtx, sub)
	}

	err = s.txManager.ExecTx(ctx, commit)
	if isChannelRace(err) {
		// A concurrent ingestion of the same unseen channel won the
		// insert; retry once, finding the committed row by lookup.
		err = s.txManager.ExecTx(ctx, commit)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		"id", sub.ID,
		"name", sub.Name,
		"playlist_id", sub.PlaylistID,
		"channel_id", sub.ChannelID,
		"user_id", req.UserID,
	)

	return sub, nil
}

// resolvedChannel carries the outcome of pre-transaction channel
// resolution: either an existing record's external id, or the metadata
// needed to create one.
type resolvedChannel struct {
	channel *models.Channel // known fields for populating the subscription
	create  bool
}

// resolveChannel finds the channel for an external reference, fetching
// provider metadata only when needed: always for username/handle forms
// (the canonical id comes from the metadata) and for unseen canonical ids.
func (s *subscriptionService) resolveChannel(ctx context.Context, kind services.URLKind, externalID string) (*resolvedChannel, error) {
	if kind == services.URLChannelID {
		channel, err := s.channelRepo.GetByChannelID(ctx, externalID)
		if err == nil {
			return &resolvedChannel{channel: channel}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	meta, err := s.resolver.FetchChannel(ctx, kind, externalID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch channel %s: %v", domain.ErrProvider, externalID, err)
	}

	// Username/handle forms resolve to a canonical id the store may
	// already know
	if kind != services.URLChannelID {
		channel, err := s.channelRepo.GetByChannelID(ctx, meta.ChannelID)
		if err == nil {
			return &resolvedChannel{channel: channel}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	return &resolvedChannel{
		create: true,
		channel: &models.Channel{
			ID:               uuid.New().String(),
			ChannelID:        meta.ChannelID,
			Name:             meta.Name,
			Description:      meta.Description,
			UploadPlaylistID: meta.UploadPlaylistID,
			IconDefault:      meta.IconDefault,
			IconBest:         meta.IconBest,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}, nil
}

// commitChannel materializes the resolved channel inside the transaction.
// The lookup is repeated here so the decision rests on transactional state,
// and the insert relies on the unique channel_id column as the final
// arbiter against concurrent ingestions.
func (s *subscriptionService) commitChannel(ctx context.Context, resolved *resolvedChannel) (*models.Channel, error) {
	existing, err := s.channelRepo.GetByChannelID(ctx, resolved.channel.ChannelID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if !resolved.create {
		// The channel existed before the transaction opened; channels are
		// never deleted, so this cannot happen in practice.
		return nil, fmt.Errorf("channel %s: %w", resolved.channel.ChannelID, domain.ErrNotFound)
	}

	if err := s.channelRepo.Create(ctx, resolved.channel); err != nil {
		return nil, err
	}
	return resolved.channel, nil
}

// isChannelRace reports whether the transaction failed on the channel_id
// unique constraint, as opposed to a duplicate-name ConflictError from the
// validator.
func isChannelRace(err error) bool {
	var dup *domain.ConflictError
	return err != nil && errors.Is(err, domain.ErrConflict) && !errors.As(err, &dup)
}

// GetSubscription retrieves a subscription owned by the user
func (s *subscriptionService) GetSubscription(ctx context.Context, userID, subID string) (*models.Subscription, error) {
	return s.subRepo.GetByID(ctx, subID, userID)
}

// UpdateSubscription renames and/or moves a subscription under the same
// validator supervision as folder mutations
func (s *subscriptionService) UpdateSubscription(ctx context.Context, userID, subID string, req *services.UpdateSubscriptionRequest) (*models.Subscription, error) {
	if req.Name == nil && !req.ParentID.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	if req.Name != nil {
		if err := validation.Validate(*req.Name, nameRules()...); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	var sub *models.Subscription
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		sub, err = s.subRepo.GetByID(txCtx, subID, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			sub.Name = strings.TrimSpace(*req.Name)
		}
		if req.ParentID.Present {
			if req.ParentID.Value != nil {
				if _, err := s.folderRepo.GetByID(txCtx, *req.ParentID.Value, userID); err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return fmt.Errorf("parent folder %s: %w", *req.ParentID.Value, domain.ErrNotFound)
					}
					return err
				}
			}
			sub.ParentID = req.ParentID.Value // nil = move to root
		}

		if err := s.validator.Validate(txCtx, models.SubscriptionNode(sub), sub.Name, sub.ParentID); err != nil {
			return err
		}

		sub.UpdatedAt = time.Now()
		return s.subRepo.Update(txCtx, sub)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription updated",
		"id", sub.ID,
		"name", sub.Name,
		"parent_id", sub.ParentID,
	)

	return sub, nil
}

// DeleteSubscription removes a subscription; its videos cascade in the store
func (s *subscriptionService) DeleteSubscription(ctx context.Context, userID, subID string) error {
	if err := s.subRepo.Delete(ctx, subID, userID); err != nil {
		return err
	}
	s.logger.Info("subscription deleted", "id", subID, "user_id", userID)
	return nil
}
