package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/api"
	"github.com/devtalkx/backend/internal/auth"
	"github.com/devtalkx/backend/internal/config"
	"github.com/devtalkx/backend/internal/domain"
	"github.com/devtalkx/backend/internal/repository"
	"github.com/devtalkx/backend/internal/storage"
	"github.com/devtalkx/backend/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting DevTalkX API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()
	db, err := initDatabase(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to database")

	repo := repository.NewPostgresRepository(db)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	googleAuth := auth.NewGoogleAuthVerifier(cfg.Google.ClientIDs)

	if googleAuth.IsConfigured() {
		logger.Info("Google sign-in is configured")
	} else {
		logger.Warn("Google sign-in is NOT configured - set GOOGLE_CLIENT_ID to enable")
	}

	fileStorage, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	authService := domain.NewAuthService(repo, jwtManager, googleAuth)
	userService := domain.NewUserService(repo)
	chatService := domain.NewChatService(repo)
	postService := domain.NewPostService(repo)

	hub := ws.NewHub(logger)
	gateway := ws.NewGateway(hub, chatService, logger)
	connectionService := domain.NewConnectionService(repo, repo, hub)

	authHandler := api.NewAuthHandler(authService, cfg.IsProduction(), logger)
	userHandler := api.NewUserHandler(userService, logger)
	requestHandler := api.NewRequestHandler(connectionService, logger)
	chatHandler := api.NewChatHandler(chatService, userService, gateway, cfg.CORS.ClientURL, logger)
	postHandler := api.NewPostHandler(postService, logger)
	uploadHandler := api.NewUploadHandler(fileStorage, logger)
	healthHandler := api.NewHealthHandler(db)

	router := api.NewRouter(
		authHandler, userHandler, requestHandler, chatHandler,
		postHandler, uploadHandler, healthHandler,
		jwtManager, cfg.CORS.ClientURL, logger,
	)
	r := router.Setup()

	if cfg.Storage.Type == "local" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Storage.LocalDir))))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func initDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = 1 * time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func initStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	if cfg.Storage.Type == "s3" {
		return storage.NewS3Storage(ctx, cfg.Storage)
	}

	baseURL := fmt.Sprintf("http://localhost:%s/uploads", cfg.Server.Port)
	if cfg.Storage.PublicURL != "" {
		baseURL = cfg.Storage.PublicURL
	}
	return storage.NewLocalFileStorage(cfg.Storage.LocalDir, baseURL)
}
