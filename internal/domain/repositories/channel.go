package repositories

import (
	"context"

	"github.com/J-tt/ytsm/internal/domain/models"
)

// ChannelRepository defines data access operations for channels.
// Channels are shared records deduplicated on the external channel id.
type ChannelRepository interface {
	// Create inserts a new channel. The external channel id column is
	// unique: a concurrent insert of the same id surfaces as
	// domain.ErrConflict, which callers recover from by re-fetching
	// (optimistic insert-or-fetch, no pre-check race).
	Create(ctx context.Context, channel *models.Channel) error

	// GetByID retrieves a channel by its internal id
	GetByID(ctx context.Context, id string) (*models.Channel, error)

	// GetByChannelID retrieves a channel by its external channel id.
	// Returns domain.ErrNotFound if no such channel exists.
	GetByChannelID(ctx context.Context, channelID string) (*models.Channel, error)
}
