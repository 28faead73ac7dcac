package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/cup-site/auth"
	"github.com/Dosada05/cup-site/config"
	"github.com/Dosada05/cup-site/db"
	"github.com/Dosada05/cup-site/handlers"
	"github.com/Dosada05/cup-site/live"
	"github.com/Dosada05/cup-site/repositories"
	api "github.com/Dosada05/cup-site/routes"
	"github.com/Dosada05/cup-site/services"
	"github.com/Dosada05/cup-site/storage"
	"github.com/go-chi/chi/v5"
)

// @title           Cup Site API
// @version         1.0
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.LogoStore
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 settings incomplete, team logo uploads disabled")
	}

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger)
	go hub.Run()
	defer hub.Stop()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	statsService := services.NewTeamStatsService(teamRepo, playerRepo, uploader, logger)
	teamService := services.NewTeamService(teamRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo)
	auctionService := services.NewAuctionService(playerRepo, teamRepo, hub, logger)

	if cfg.AdminEmail != "" {
		seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
		admin, err := authService.EnsureAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword)
		cancelSeed()
		if err != nil {
			logger.Error("failed to ensure admin account", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("admin account ready", slog.Int("user_id", admin.ID))
	}

	tokens := auth.NewTokens(cfg.JWTSecretKey, cfg.SessionTTL)

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, tokens, cfg.LoginPath, logger),
		Team:      handlers.NewTeamHandler(statsService, teamService, hub, logger),
		Player:    handlers.NewPlayerHandler(playerService, logger),
		Auction:   handlers.NewAuctionHandler(auctionService, logger),
		Dashboard: handlers.NewDashboardHandler(statsService, logger),
		WebSocket: handlers.NewWebSocketHandler(hub, authService, tokens, cfg.LoginPath, api.OriginChecker(cfg.AllowedOrigins), logger),
	}, api.Options{
		Tokens:         tokens,
		LoginPath:      cfg.LoginPath,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			return
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
