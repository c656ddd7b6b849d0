package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
)

const channelColumns = `id, channel_id, name, description, upload_playlist_id, icon_default, icon_best, created_at, updated_at`

// PostgresChannelRepository implements the ChannelRepository interface
type PostgresChannelRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChannelRepository creates a new channel repository
func NewChannelRepository(config *RepositoryConfig) repositories.ChannelRepository {
	return &PostgresChannelRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new channel. The channel_id column carries a unique
// constraint: a concurrent insert of the same external id comes back as
// domain.ErrConflict, which the ingestor recovers from by re-fetching.
func (r *PostgresChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Channels, channelColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		channel.ID,
		channel.ChannelID,
		channel.Name,
		channel.Description,
		channel.UploadPlaylistID,
		channel.IconDefault,
		channel.IconBest,
		channel.CreatedAt,
		channel.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("channel '%s': %w", channel.ChannelID, domain.ErrConflict)
		}
		return fmt.Errorf("create channel: %w", err)
	}

	return nil
}

// GetByID retrieves a channel by its internal id
func (r *PostgresChannelRepository) GetByID(ctx context.Context, id string) (*models.Channel, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, channelColumns, r.tables.Channels)

	return r.queryChannel(ctx, query, id)
}

// GetByChannelID retrieves a channel by its external channel id
func (r *PostgresChannelRepository) GetByChannelID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE channel_id = $1
	`, channelColumns, r.tables.Channels)

	return r.queryChannel(ctx, query, channelID)
}

func (r *PostgresChannelRepository) queryChannel(ctx context.Context, query string, arg interface{}) (*models.Channel, error) {
	var channel models.Channel
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&channel.ID,
		&channel.ChannelID,
		&channel.Name,
		&channel.Description,
		&channel.UploadPlaylistID,
		&channel.IconDefault,
		&channel.IconBest,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("channel: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}

	return &channel, nil
}
