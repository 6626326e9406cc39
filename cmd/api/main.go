package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trialbook/internal/cache"
	"trialbook/internal/config"
	"trialbook/internal/database"
	"trialbook/internal/orchestrator"
	"trialbook/internal/orchestrator/worker"
	"trialbook/internal/rabbitmq"
	"trialbook/internal/resource"
	"trialbook/internal/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := "config/config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)
	log.Info().Str("app", cfg.AppName).Str("env", cfg.Env).Msg("Starting match log service")

	// Initialize MongoDB connection
	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database connection")
	}
	log.Info().Msg("MongoDB connection established")

	// Initialize Redis connection
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize redis cache connection")
	}
	defer redisCache.Close()
	log.Info().Msg("Redis connection established")

	// Initialize RabbitMQ connection
	rabbitClient, err := rabbitmq.NewClientFromConfig(cfg.RabbitMQ)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize RabbitMQ connection")
	}
	defer rabbitClient.Close()
	log.Info().Msg("RabbitMQ connection established")

	// Initialize the S3 icon store
	iconStore, err := resource.NewS3IconStore(cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.AWS.Bucket, cfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize icon store")
	}
	if err := iconStore.TestConnection(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Icon store unreachable, icons will fail until it recovers")
	}

	// Register background workers
	registry := orchestrator.NewWorkerRegistry(
		worker.NewStatisticsWorker(db),
		worker.NewImportMatchesWorker(db),
	)

	httpServer := server.New(*cfg, db, redisCache, rabbitClient, registry, iconStore)

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

func setupLogger(config config.LoggingConfig) {
	// Set global log level
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure logger output
	switch config.Format {
	case "json":
		// JSON is the default for zerolog
	case "console", "combined":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	// Add timestamp
	log.Logger = log.With().Timestamp().Logger()
}
