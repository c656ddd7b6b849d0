package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
)

const videoColumns = `id, subscription_id, video_id, name, description, publish_date, views, rating, playlist_index, watched, downloaded`

// PostgresVideoRepository implements the VideoRepository interface
type PostgresVideoRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(config *RepositoryConfig) repositories.VideoRepository {
	return &PostgresVideoRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// orderClause maps a sort key to its ORDER BY clause. Every ordering is
// tie-broken by id so repeated queries return identical sequences.
func orderClause(sort models.VideoSort) string {
	var key string
	switch sort {
	case models.SortOldest:
		key = "publish_date ASC"
	case models.SortPlaylist:
		key = "playlist_index ASC"
	case models.SortPlaylistReverse:
		key = "playlist_index DESC"
	case models.SortPopularity:
		key = "views DESC"
	case models.SortRating:
		key = "rating DESC"
	case models.SortNewest:
		fallthrough
	default:
		key = "publish_date DESC"
	}
	return "ORDER BY " + key + ", id ASC"
}

// ListBySubscriptions returns videos of the given subscriptions filtered
// and ordered per the filter
func (r *PostgresVideoRepository) ListBySubscriptions(ctx context.Context, subscriptionIDs []string, filter models.VideoFilter) ([]models.Video, error) {
	if len(subscriptionIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE subscription_id = ANY($1)
	`, videoColumns, r.tables.Videos)

	args := []interface{}{subscriptionIDs}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filter.Watched != nil {
		args = append(args, *filter.Watched)
		query += fmt.Sprintf(" AND watched = $%d", len(args))
	}
	if filter.Downloaded != nil {
		args = append(args, *filter.Downloaded)
		query += fmt.Sprintf(" AND downloaded = $%d", len(args))
	}

	query += " " + orderClause(filter.Sort)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		err := rows.Scan(
			&v.ID,
			&v.SubscriptionID,
			&v.VideoID,
			&v.Name,
			&v.Description,
			&v.PublishDate,
			&v.Views,
			&v.Rating,
			&v.PlaylistIndex,
			&v.Watched,
			&v.Downloaded,
		)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
