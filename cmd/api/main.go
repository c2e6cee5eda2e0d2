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

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/meeting-notetaker/docs"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/handler"
	"github.com/johnquangdev/meeting-notetaker/internal/adapter/repository"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/external/recall"
	httpmw "github.com/johnquangdev/meeting-notetaker/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/observability/metrics"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/apikey"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/export"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/maintenance"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/recording"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/webhook"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/meeting-notetaker/pkg/validator"
)

// @title           Meeting Notetaker API
// @version         1.0
// @description     Meeting bot dispatch, transcript processing and meeting analytics.

// @contact.name   API Support

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key

// @securityDefinitions.apikey ExportSecret
// @in header
// @name X-Export-Secret

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	m := metrics.DefaultMetrics
	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
			httpmw.HeaderAPIKey, httpmw.HeaderExportSecret,
		},
		AllowCredentials: true,
	}))
	e.Use(m.EchoMiddleware())

	logger.Info("🔧 Initializing dependencies...")

	// Database
	logger.Info("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		logger.Info("🔄 Applying embedded migrations...")
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	} else {
		logger.Info("🔄 Skipping migrations; run notetakerctl migrate up")
	}

	// Webhook deduplication: Redis when reachable, in-process otherwise
	var tracker webhook.Tracker
	var redisClient *redis.Client
	redisClient, err = cache.NewRedisClient(rootCtx, cfg)
	if err != nil {
		logger.Warn("⚠️ Redis unavailable, using in-memory webhook tracker", zap.Error(err))
		memTracker := cache.NewMemoryTracker(cfg.Redis.WebhookTTL)
		defer memTracker.Close()
		tracker = memTracker
	} else {
		defer redisClient.Close()
		tracker = cache.NewRedisTracker(redisClient, "webhook:meeting:", cfg.Redis.WebhookTTL)
	}

	// Object storage for export archives
	var archive export.Archiver
	var minioClient *storage.MinIOClient
	if cfg.Storage.Enabled {
		minioClient, err = storage.NewMinIOClient(rootCtx, &cfg.Storage)
		if err != nil {
			logger.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		archive = minioClient
		logger.Info("🗄️ Export archive enabled", zap.String("bucket", cfg.Storage.BucketName))
	}

	// Repositories
	recordingRepo := repository.NewRecordingRepository(db)
	segmentRepo := repository.NewTranscriptRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	// External clients
	bots := recall.NewClient(&cfg.Bot, logger, m)

	// Use cases
	recordingService := recording.NewRecordingService(recordingRepo, segmentRepo, bots, cfg.Maintenance, logger, m)
	exportService := export.NewExportService(recordingRepo, segmentRepo, archive, cfg.Export, logger, m)
	meetingBotService := webhook.NewMeetingBotService(recordingRepo, bots, tracker, cfg.Webhook, cfg.Bot.BotName, logger, m)
	apiKeyService := apikey.NewAPIKeyService(apiKeyRepo, logger)

	var transcriber handler.Submitter
	var transcriptionHandler handler.TranscriptionHandler
	if cfg.Assembly.APIKey != "" {
		assembly := aai.NewClient(cfg.Assembly.APIKey)
		transcriptionService := webhook.NewTranscriptionService(recordingRepo, segmentRepo, assembly.Transcripts, cfg.Assembly, logger, m)
		transcriber = transcriptionService
		transcriptionHandler = transcriptionService
	} else {
		logger.Warn("⚠️ ASSEMBLYAI_API_KEY not set, transcription disabled")
	}

	// Router
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.Issuer, time.Hour)
	router := handler.NewRouter(cfg, jwtManager, recordingRepo, apiKeyRepo, logger)
	router.Transcript = handler.NewTranscriptHandler(exportService, logger, m)
	router.Recording = handler.NewRecordingHandler(recordingService, transcriber, logger)
	router.Webhook = handler.NewWebhookHandler(meetingBotService, transcriptionHandler, cfg.Assembly.WebhookSecret, logger)
	router.External = handler.NewExternalHandler(recordingService, logger)
	router.Admin = handler.NewAdminHandler(apiKeyService, logger)
	router.Maintenance = handler.NewMaintenanceHandler(recordingService, logger)

	router.HealthChecks["database"] = func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	if redisClient != nil {
		router.HealthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if minioClient != nil {
		router.Archive = handler.NewArchiveHandler(minioClient, logger)
		router.HealthChecks["storage"] = minioClient.Ping
	}

	router.Setup(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Background maintenance
	var scheduler *maintenance.Scheduler
	if cfg.Maintenance.Enabled {
		scheduler = maintenance.NewScheduler(recordingService, cfg.Maintenance.Interval, logger, m)
		if err := scheduler.Start(rootCtx); err != nil {
			logger.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
	}

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			logger.Warn("⚠️ Failed to stop maintenance scheduler", zap.Error(err))
		}
	}
	stopRoot()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
