package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pure-price-press/internal/curator/config"
	delivery "pure-price-press/internal/curator/delivery/http"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/curator/service"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/postgres"
	"pure-price-press/pkg/redis"
	"pure-price-press/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the curator service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Curator Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	rawRepo := repository.NewRawNewsRepository(db.DB)
	mergedRepo := repository.NewMergedNewsRepository(db.DB)
	curatedRepo := repository.NewCuratedNewsRepository(db.DB)
	digestRepo := repository.NewDailyDigestRepository(db.DB)
	watchRepo := repository.NewWatchTargetRepository(db.DB)

	// Initialize AI provider. No provider configured means every analysis
	// stage degrades to its neutral default.
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
		aiRepo = repo
	case "openai":
		aiRepo = repository.NewOpenAIRepository(cfg, appLogger)
	case "":
		appLogger.Warn("No AI provider configured, analysis stages will use neutral defaults")
	default:
		appLogger.Fatal("Invalid AI provider specified in config", logger.Field("provider", cfg.AI.Provider))
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize news providers
	providers := map[string]repository.NewsProvider{
		"rss":           repository.NewRSSFeedRepository(appLogger, cfg.Collector.EnrichSummaries),
		"alpha_vantage": repository.NewAlphaVantageRepository(appLogger),
		"finnhub":       repository.NewFinnhubRepository(appLogger),
	}

	// Initialize services
	collectorSvc := service.NewCollectorService(appLogger, cfg.Collector, providers)
	dedupSvc := service.NewDeduplicationService(appLogger, cfg.Deduplicator)
	analyzerSvc := service.NewAnalyzerService(appLogger, cfg.Analyzer, aiRepo)
	translatorSvc := service.NewTranslatorService(appLogger, aiRepo)
	continuitySvc := service.NewContinuousReportingService(appLogger, cfg.ContinuousReporting, curatedRepo)
	batchSvc := service.NewBatchService(
		appLogger,
		cfg,
		collectorSvc,
		dedupSvc,
		analyzerSvc,
		translatorSvc,
		continuitySvc,
		rawRepo,
		mergedRepo,
		curatedRepo,
		digestRepo,
		watchRepo,
		redisClient,
		notifier,
	)

	// Schedule recurring batch runs
	var scheduler *cron.Cron
	if cfg.Batch.CronSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Batch.CronSchedule, func() {
			if _, err := batchSvc.Run(ctx, cfg.Collector.HoursBack); err != nil {
				if errors.Is(err, service.ErrBatchAlreadyRunning) {
					appLogger.Warn("Scheduled batch skipped, previous run still in progress")
					return
				}
				appLogger.Error("Scheduled batch run failed", logger.ErrorField(err))
			}
		})
		if err != nil {
			appLogger.Fatal("Invalid cron schedule", logger.ErrorField(err), logger.Field("schedule", cfg.Batch.CronSchedule))
		}
		scheduler.Start()
		appLogger.Info("Batch schedule registered", logger.Field("schedule", cfg.Batch.CronSchedule))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")

	batchHandler := delivery.NewBatchHandler(batchSvc, appLogger)
	batchGroup := apiV1.Group("/batch")
	batchHandler.RegisterRoutes(batchGroup)

	newsHandler := delivery.NewNewsHandler(curatedRepo, digestRepo, appLogger)
	newsHandler.RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	if scheduler != nil {
		cronCtx := scheduler.Stop()
		<-cronCtx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "curator-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-curator.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing curator-service CLI: %s\n", err)
		os.Exit(1)
	}
}
