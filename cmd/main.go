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

	"github.com/courtside/competition-system/config"
	"github.com/courtside/competition-system/db"
	"github.com/courtside/competition-system/handlers"
	"github.com/courtside/competition-system/live"
	"github.com/courtside/competition-system/notifications"
	"github.com/courtside/competition-system/repositories"
	api "github.com/courtside/competition-system/routes"
	"github.com/courtside/competition-system/services"
	"github.com/courtside/competition-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/resend/resend-go/v2"
)

const notificationQueueSize = 256

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

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

	// File storage is optional: without R2 credentials news images are
	// simply unavailable.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
	}

	var gateway notifications.Gateway
	if cfg.FirebaseCredentialsJSON != "" {
		gateway, err = notifications.NewFCMGateway(context.Background(), cfg.FirebaseCredentialsJSON)
		if err != nil {
			logger.Error("failed to initialize FCM gateway", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("FCM gateway initialized")
	} else {
		gateway = notifications.NewNoopGateway(logger)
		logger.Warn("no Firebase credentials configured, push delivery disabled")
	}

	dispatcher := notifications.NewDispatcher(gateway, logger, notificationQueueSize)
	go dispatcher.Run()
	defer dispatcher.Close()

	var emailClient *resend.Client
	if cfg.ResendAPIKey != "" {
		emailClient = resend.NewClient(cfg.ResendAPIKey)
		logger.Info("email client initialized")
	}

	liveHub := live.NewHub(logger)
	go liveHub.Run()
	logger.Info("live hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eventRepo := repositories.NewPostgresMatchEventRepository(dbConn)
	scoresRepo := repositories.NewPostgresMatchScoresRepository(dbConn)
	pausedTimeRepo := repositories.NewPostgresMatchPausedTimeRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	umpireRepo := repositories.NewPostgresMatchUmpireRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	deviceRepo := repositories.NewPostgresDeviceRepository(dbConn)
	watchlistRepo := repositories.NewPostgresWatchlistRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)
	ladderRepo := repositories.NewPostgresLadderRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn)
	logger.Info("repositories initialized")

	notifier := services.NewNotificationService(rosterRepo, deviceRepo, watchlistRepo, dispatcher, logger)
	eventService := services.NewMatchEventService(matchRepo, eventRepo, scoresRepo, notifier, liveHub, logger)
	ladderService := services.NewLadderService(transactor, ladderRepo)
	matchService := services.NewMatchService(
		transactor,
		matchRepo,
		scoresRepo,
		pausedTimeRepo,
		umpireRepo,
		lineupRepo,
		eventService,
		notifier,
		ladderService,
		logger,
	)
	rosterService := services.NewRosterService(rosterRepo, umpireRepo, userRepo)
	teamService := services.NewTeamService(teamRepo, deviceRepo, watchlistRepo)
	newsService := services.NewNewsService(newsRepo, deviceRepo, watchlistRepo, uploader, emailClient, cfg.EmailFromHeader, dispatcher, logger)
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	matchHandler := handlers.NewMatchHandler(matchService, eventService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	teamHandler := handlers.NewTeamHandler(teamService)
	newsHandler := handlers.NewNewsHandler(newsService)
	ladderHandler := handlers.NewLadderHandler(ladderService)
	webSocketHandler := handlers.NewWebSocketHandler(liveHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		matchHandler,
		rosterHandler,
		teamHandler,
		newsHandler,
		ladderHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
