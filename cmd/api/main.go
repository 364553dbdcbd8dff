// @title           Comment Sync API
// @version         1.0
// @description     Social comment webhook ingestion and reply automation API

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /api

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "comment-sync-api/docs" // Swagger docs import

	"comment-sync-api/internal/client"
	"comment-sync-api/internal/config"
	"comment-sync-api/internal/database"
	"comment-sync-api/internal/handler"
	"comment-sync-api/internal/job"
	"comment-sync-api/internal/metrics"
	"comment-sync-api/internal/repository"
	"comment-sync-api/internal/router"
	"comment-sync-api/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Comment Sync API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("graph_base_url", cfg.Graph.BaseURL),
	)

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	// Initialize database; startup survives a dead database and retries
	// in the background
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second)
		db = database.GetDB()
	} else {
		logger.Info("Database connected successfully")

		if err := database.SafeAutoMigrate(db, logger); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}

		database.RegisterMetricsCallbacks(db, m)
		database.StartDBStatsCollector(db, m)
	}

	// Initialize Redis; the automation config cache degrades gracefully
	// without it
	redisClient, err := database.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, automation config cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		logger.Info("Redis connected successfully")
	}

	// Initialize Graph API client
	graphClient := client.NewGraphClient(cfg.Graph.BaseURL, cfg.Graph.PageAccessToken, cfg.Graph.Timeout, logger, m)

	// Initialize repositories
	commentRepo := repository.NewCommentRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)
	suggestionRepo := repository.NewReplySuggestionRepository(db)
	scheduledRepo := repository.NewScheduledReplyRepository(db)
	automationRepo := repository.NewAutomationConfigRepository(db)

	// Initialize services
	automationService := service.NewAutomationConfigService(automationRepo, redisClient, logger)
	replyGenerator := service.NewReplyGenerator(cfg.OpenAI.APIKey, logger)
	autoReplyService := service.NewAutoReplyService(
		commentRepo, scheduledRepo, suggestionRepo, activityLogRepo,
		automationService, replyGenerator, graphClient,
		m, logger, cfg.Reply.BatchSize,
	)
	reconciler := service.NewReconcilerService(
		commentRepo, activityLogRepo, autoReplyService,
		m, logger, cfg.Graph.PageID,
	)
	normalizer := service.NewEventNormalizer(logger)
	rescanService := service.NewRescanService(
		commentRepo, graphClient, reconciler,
		service.NewRescanRegistry(), m, logger, cfg.Graph.PageID,
	)
	commentService := service.NewCommentService(
		commentRepo, activityLogRepo, suggestionRepo,
		autoReplyService, replyGenerator, automationService,
		graphClient, logger,
	)

	// Initialize business metrics collector
	collector := metrics.NewBusinessMetricsCollector(db, m, logger)
	collector.Start()
	defer collector.Stop()

	// Start background jobs
	dispatcher := job.NewReplyDispatcher(autoReplyService, cfg.Reply.DispatchInterval, logger)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	rescanJob := job.NewRescanJob(rescanService, cfg.Rescan.ActivityWindow, logger)
	if err := rescanJob.Start(cfg.Rescan.CronSpec); err != nil {
		logger.Error("Failed to schedule rescan job", zap.Error(err))
	} else {
		defer rescanJob.Stop()
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		AppConfig:         cfg,
		Logger:            logger,
		Metrics:           m,
		WebhookHandler:    handler.NewWebhookHandler(normalizer, reconciler, cfg.Webhook.VerifyToken, logger),
		CommentHandler:    handler.NewCommentHandler(commentService, rescanService),
		AutomationHandler: handler.NewAutomationHandler(automationService),
		HealthHandler:     handler.NewHealthHandler(redisClient),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Comment Sync API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
