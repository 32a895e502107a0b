package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/agentmeet-team/agentmeet/internal/adapter/handler"
	"github.com/agentmeet-team/agentmeet/internal/adapter/repository"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/cache"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/database"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/external/stream"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/queue"
	"github.com/agentmeet-team/agentmeet/internal/infrastructure/storage"
	"github.com/agentmeet-team/agentmeet/internal/usecase/dispatcher"
	"github.com/agentmeet-team/agentmeet/internal/usecase/summary"
	"github.com/agentmeet-team/agentmeet/pkg/ai"
	"github.com/agentmeet-team/agentmeet/pkg/config"
	pkgvalidator "github.com/agentmeet-team/agentmeet/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger.Info("connecting to database")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Schema migrations run only when explicitly enabled. Production
	// deployments apply them through cmd/migrate instead.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production; apply migrations with the migrate script instead")
		}
		logger.Info("applying schema migrations")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	logger.Info("connecting to redis")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	meetingRepo := repository.NewMeetingRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewSummaryJobRepository(db)

	streamClient := stream.NewClient(&cfg.Stream)
	if cfg.Stream.UseMock {
		logger.Warn("stream client running in mock mode")
	}
	completionClient := ai.NewCompletionClient(&cfg.OpenAI)

	var archiver summary.Archiver
	if cfg.Storage.Enabled {
		archive, err := storage.NewTranscriptArchive(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize transcript archive: %v", err)
		}
		archiver = archive
		logger.Info("transcript archive enabled", zap.String("bucket", cfg.Storage.BucketName))
	}

	summaryQueue := queue.NewSummaryQueue(jobRepo, redisClient, logger)

	summaryService := summary.NewService(
		jobRepo,
		meetingRepo,
		agentRepo,
		userRepo,
		completionClient,
		summary.NewTranscriptFetcher(),
		archiver,
		summaryQueue,
		cfg.Summary,
		logger,
	)
	if err := summaryService.StartWorkerPool(context.Background()); err != nil {
		log.Fatalf("Failed to start summary workers: %v", err)
	}

	dispatcherService := dispatcher.NewService(
		meetingRepo,
		agentRepo,
		streamClient,
		completionClient,
		summaryQueue,
		cfg.Chat.HistoryLimit,
		logger,
	)

	webhookHandler := handler.NewWebhookHandler(dispatcherService, streamClient, logger)
	router := handler.NewRouter(cfg, webhookHandler)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let in-flight summary jobs finish before the process exits
	if err := summaryService.StopWorkerPool(); err != nil {
		logger.Warn("summary worker pool did not stop cleanly", zap.Error(err))
	}

	logger.Info("server stopped")
}
