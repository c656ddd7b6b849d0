package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/J-tt/ytsm/internal/domain"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/repositories"
)

const subscriptionColumns = `id, user_id, parent_id, channel_id, name, description, playlist_id, icon_default, icon_best, created_at, updated_at`

// PostgresSubscriptionRepository implements the SubscriptionRepository interface
type PostgresSubscriptionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(config *RepositoryConfig) repositories.SubscriptionRepository {
	return &PostgresSubscriptionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanSubscription(row interface{ Scan(...interface{}) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ParentID,
		&sub.ChannelID,
		&sub.Name,
		&sub.Description,
		&sub.PlaylistID,
		&sub.IconDefault,
		&sub.IconBest,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create creates a new subscription
func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Subscriptions, subscriptionColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		sub.ID,
		sub.UserID,
		sub.ParentID,
		sub.ChannelID,
		sub.Name,
		sub.Description,
		sub.PlaylistID,
		sub.IconDefault,
		sub.IconBest,
		sub.CreatedAt,
		sub.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("subscription '%s': %w", sub.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("subscription parent or channel: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

// GetByID retrieves a subscription by ID
func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id, userID string) (*models.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, subscriptionColumns, r.tables.Subscriptions)

	sub, err := scanSubscription(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return sub, nil
}

// Update updates a subscription's name and parent
func (r *PostgresSubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, r.tables.Subscriptions)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		sub.ParentID,
		sub.Name,
		sub.UpdatedAt,
		sub.ID,
		sub.UserID,
	)

	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", sub.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a subscription. Videos cascade via the FK on videos.subscription_id.
func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Subscriptions)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByParent lists subscriptions directly under a folder
func (r *PostgresSubscriptionRepository) ListByParent(ctx context.Context, parentID *string, userID string) ([]models.Subscription, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`, subscriptionColumns, r.tables.Subscriptions)
		args = append(args, userID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`, subscriptionColumns, r.tables.Subscriptions)
		args = append(args, userID, *parentID)
	}

	return r.querySubscriptions(ctx, query, args...)
}

// GetAllByUser retrieves all subscriptions owned by a user (flat list)
func (r *PostgresSubscriptionRepository) GetAllByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, subscriptionColumns, r.tables.Subscriptions)

	return r.querySubscriptions(ctx, query, userID)
}

func (r *PostgresSubscriptionRepository) querySubscriptions(ctx context.Context, query string, args ...interface{}) ([]models.Subscription, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subs, nil
}
