package services

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/httputil"
)

// CreateSubscriptionRequest is the request to subscribe to a URL.
type CreateSubscriptionRequest struct {
	UserID   string  `json:"-"`
	URL      string  `json:"url"`
	ParentID *string `json:"parent_id"`
}

// UpdateSubscriptionRequest renames and/or moves a subscription.
// ParentID is tri-state: absent = keep, null = move to root, id = move.
type UpdateSubscriptionRequest struct {
	UserID   string                  `json:"-"`
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// SubscriptionService resolves URLs into subscriptions and manages their
// place in the tree.
type SubscriptionService interface {
	// CreateSubscription runs the ingestion pipeline: resolve the parent,
	// classify the URL, fetch playlist/channel metadata, deduplicate the
	// channel, validate the tree attachment and commit. Provider failures
	// leave nothing behind.
	CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*models.Subscription, error)

	GetSubscription(ctx context.Context, userID, subID string) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, userID, subID string, req *UpdateSubscriptionRequest) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, userID, subID string) error
}
