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

	"github.com/TheMordhon1/warga-pkt/brackets"
	"github.com/TheMordhon1/warga-pkt/config"
	"github.com/TheMordhon1/warga-pkt/db"
	"github.com/TheMordhon1/warga-pkt/handlers"
	"github.com/TheMordhon1/warga-pkt/metrics"
	"github.com/TheMordhon1/warga-pkt/repositories"
	"github.com/TheMordhon1/warga-pkt/routes"
	"github.com/TheMordhon1/warga-pkt/services"
	"github.com/TheMordhon1/warga-pkt/storage"
)

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
		}
	}()
	logger.Info("database connection established")

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
	} else {
		logger.Warn("R2 storage not configured, logo uploads disabled")
	}

	metrics.Register()

	wsHub := brackets.NewHub()
	go wsHub.Run()

	txRunner := db.NewTxRunner(dbConn)

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	houseRepo := repositories.NewPostgresHouseRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	memberRepo := repositories.NewPostgresTeamMemberRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository()
	refereeRepo := repositories.NewPostgresRefereeRepository(dbConn)

	authService := services.NewAuthService(userRepo, houseRepo, cfg.JWTSecretKey)
	teamService := services.NewTeamService(dbConn, teamRepo, memberRepo, competitionRepo, matchRepo, houseRepo, userRepo, uploader)
	bracketService := services.NewBracketService(dbConn, txRunner, competitionRepo, teamRepo, matchRepo, refereeRepo, wsHub, logger)
	matchService := services.NewMatchService(dbConn, txRunner, matchRepo, teamRepo, competitionRepo, wsHub, logger)
	refereeService := services.NewRefereeService(refereeRepo, competitionRepo, userRepo)
	competitionService := services.NewCompetitionService(competitionRepo, bracketService, logger)
	logger.Info("services initialized")

	router := routes.InitRoutes(routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Competition: handlers.NewCompetitionHandler(competitionService, bracketService),
		Team:        handlers.NewTeamHandler(teamService),
		Match:       handlers.NewMatchHandler(matchService, refereeService, competitionService),
		Referee:     handlers.NewRefereeHandler(refereeService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub),
	}, cfg.JWTSecretKey, cfg.CORSAllowedOrigins)

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
	}
	logger.Info("application exited")
}
