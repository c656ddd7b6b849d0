package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/J-tt/ytsm/internal/config"
	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/services"
	"github.com/J-tt/ytsm/internal/repository/postgres"
	"github.com/J-tt/ytsm/internal/service"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample data")
	clearData := flag.Bool("clear-data", false, "Clear the seed user's folders and subscriptions (keep schema)")
	seedUserID := flag.String("user", "00000000-0000-0000-0000-000000000001", "User id to seed data under")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := clearUserData(ctx, pool, tables, *seedUserID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared")
		return
	}

	if err := seedSampleData(ctx, pool, tables, logger, *seedUserID); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Channels are shared between users; the external channel id is the
	// dedup anchor and must be unique.
	createChannels := `
		CREATE TABLE IF NOT EXISTS ` + tables.Channels + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			channel_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			upload_playlist_id TEXT NOT NULL DEFAULT '',
			icon_default TEXT NOT NULL DEFAULT '',
			icon_best TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createChannels); err != nil {
		return err
	}

	// Sibling-name uniqueness spans folders and subscriptions and is
	// case-insensitive, so it is enforced by the tree validator rather than
	// a per-table constraint.
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createSubscriptions := `
		CREATE TABLE IF NOT EXISTS ` + tables.Subscriptions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			channel_id UUID NOT NULL REFERENCES ` + tables.Channels + `(id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			playlist_id TEXT NOT NULL DEFAULT '',
			icon_default TEXT NOT NULL DEFAULT '',
			icon_best TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSubscriptions); err != nil {
		return err
	}

	createVideos := `
		CREATE TABLE IF NOT EXISTS ` + tables.Videos + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			subscription_id UUID NOT NULL REFERENCES ` + tables.Subscriptions + `(id) ON DELETE CASCADE,
			video_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			publish_date TIMESTAMPTZ NOT NULL,
			views BIGINT NOT NULL DEFAULT 0,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			playlist_index INTEGER NOT NULL DEFAULT 0,
			watched BOOLEAN NOT NULL DEFAULT FALSE,
			downloaded BOOLEAN NOT NULL DEFAULT FALSE
		)
	`
	if _, err := pool.Exec(ctx, createVideos); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_user_parent ON ` + tables.Folders + `(user_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `subscriptions_user_parent ON ` + tables.Subscriptions + `(user_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `subscriptions_channel ON ` + tables.Subscriptions + `(channel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `videos_subscription ON ` + tables.Videos + `(subscription_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `videos_publish_date ON ` + tables.Videos + `(subscription_id, publish_date DESC)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Videos,
		tables.Subscriptions,
		tables.Folders,
		tables.Channels,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearUserData removes a user's subscriptions and folders; videos cascade
func clearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Subscriptions+" WHERE user_id = $1", userID); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders+" WHERE user_id = $1", userID); err != nil {
		return err
	}
	return nil
}

// seedSampleData creates a small tree for manual testing. Folders go
// through the service layer so the same validation the API applies runs
// here; channel, subscription and video rows are inserted directly since
// their production writers (the ingestion pipeline and the external video
// sync job) are not part of seeding.
func seedSampleData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger, userID string) error {
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	subRepo := postgres.NewSubscriptionRepository(repoConfig)
	channelRepo := postgres.NewChannelRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	validator := service.NewTreeValidator(folderRepo, subRepo)
	treeSvc := service.NewTreeService(folderRepo, subRepo, logger)
	folderSvc := service.NewFolderService(folderRepo, subRepo, treeSvc, validator, txManager, logger)

	tech, err := folderSvc.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID: userID,
		Name:   "Tech",
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Created folder Tech (ID: %s)", tech.ID)

	reviews, err := folderSvc.CreateFolder(ctx, &services.CreateFolderRequest{
		UserID:   userID,
		Name:     "Reviews",
		ParentID: &tech.ID,
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Created folder Tech/Reviews (ID: %s)", reviews.ID)

	now := time.Now()
	channel := &models.Channel{
		ID:               uuid.New().String(),
		ChannelID:        "UCSEEDSAMPLECHANNEL00001",
		Name:             "Sample Tech Channel",
		Description:      "Seeded channel for local development",
		UploadPlaylistID: "UUSEEDSAMPLECHANNEL00001",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := channelRepo.Create(ctx, channel); err != nil {
		return err
	}

	sub := &models.Subscription{
		ID:          uuid.New().String(),
		UserID:      userID,
		ParentID:    &reviews.ID,
		ChannelID:   channel.ID,
		Name:        "Sample Tech Channel",
		Description: "Seeded subscription",
		PlaylistID:  channel.UploadPlaylistID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := subRepo.Create(ctx, sub); err != nil {
		return err
	}
	log.Printf("✅ Created subscription %s under Tech/Reviews", sub.Name)

	insertVideo := `
		INSERT INTO ` + tables.Videos + ` (id, subscription_id, video_id, name, description, publish_date, views, rating, playlist_index, watched, downloaded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	videos := []models.Video{
		{ID: uuid.New().String(), SubscriptionID: sub.ID, VideoID: "seed-video-1", Name: "First Look", PublishDate: now.Add(-48 * time.Hour), Views: 1200, Rating: 4.7, PlaylistIndex: 1},
		{ID: uuid.New().String(), SubscriptionID: sub.ID, VideoID: "seed-video-2", Name: "Deep Dive", PublishDate: now.Add(-24 * time.Hour), Views: 800, Rating: 4.9, PlaylistIndex: 2, Watched: true},
	}
	for _, v := range videos {
		if _, err := pool.Exec(ctx, insertVideo,
			v.ID, v.SubscriptionID, v.VideoID, v.Name, v.Description,
			v.PublishDate, v.Views, v.Rating, v.PlaylistIndex, v.Watched, v.Downloaded,
		); err != nil {
			return err
		}
	}
	log.Printf("✅ Created %d videos", len(videos))

	return nil
}
