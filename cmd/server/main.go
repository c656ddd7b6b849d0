package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/J-tt/ytsm/internal/auth"
	"github.com/J-tt/ytsm/internal/config"
	"github.com/J-tt/ytsm/internal/handler"
	"github.com/J-tt/ytsm/internal/middleware"
	"github.com/J-tt/ytsm/internal/provider/youtube"
	"github.com/J-tt/ytsm/internal/repository/postgres"
	"github.com/J-tt/ytsm/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	subRepo := postgres.NewSubscriptionRepository(repoConfig)
	channelRepo := postgres.NewChannelRepository(repoConfig)
	videoRepo := postgres.NewVideoRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	resolver, err := youtube.NewResolver(ctx, cfg.YouTubeKey, logger)
	if err != nil {
		log.Fatalf("Failed to create youtube resolver: %v", err)
	}

	// Create services
	validator := service.NewTreeValidator(folderRepo, subRepo)
	treeService := service.NewTreeService(folderRepo, subRepo, logger)
	folderService := service.NewFolderService(folderRepo, subRepo, treeService, validator, txManager, logger)
	subService := service.NewSubscriptionService(subRepo, folderRepo, channelRepo, resolver, validator, txManager, logger)
	videoService := service.NewVideoService(videoRepo, subRepo, treeService, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	subHandler := handler.NewSubscriptionHandler(subService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	videoHandler := handler.NewVideoHandler(videoService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Tree endpoint
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Subscription routes
	mux.HandleFunc("POST /api/subscriptions", subHandler.CreateSubscription)
	mux.HandleFunc("GET /api/subscriptions/{id}", subHandler.GetSubscription)
	mux.HandleFunc("PATCH /api/subscriptions/{id}", subHandler.UpdateSubscription)
	mux.HandleFunc("DELETE /api/subscriptions/{id}", subHandler.DeleteSubscription)

	// Video routes
	mux.HandleFunc("GET /api/videos", videoHandler.ListVideos)

	// Build middleware chain, applied in reverse order
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
