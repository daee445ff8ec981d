package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hakivo/podcastd/internal/config"
	"github.com/hakivo/podcastd/internal/congress"
	"github.com/hakivo/podcastd/internal/database"
	"github.com/hakivo/podcastd/internal/handler"
	"github.com/hakivo/podcastd/internal/llm"
	"github.com/hakivo/podcastd/internal/news"
	"github.com/hakivo/podcastd/internal/objectstore"
	"github.com/hakivo/podcastd/internal/queue"
	"github.com/hakivo/podcastd/internal/scheduler"
	"github.com/hakivo/podcastd/internal/service"
	"github.com/hakivo/podcastd/internal/status"
	"github.com/hakivo/podcastd/internal/tts"
	"github.com/hakivo/podcastd/internal/worker"
	"github.com/hakivo/podcastd/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting HakiVo Podcast Service", "version", version)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize repositories
	episodeRepo := database.NewEpisodeRepository(db)
	subRepo := database.NewSubscriptionRepository(db)
	lockRepo := database.NewLockRepository(db)

	// Queue and status store
	jobQueue := queue.NewRedis(redisClient, cfg.QueueName)
	defer jobQueue.Close()
	statusStore := status.NewRedisStore(redisClient, cfg.QueueName, cfg.StatusRetention)

	// Vendor clients
	vendorHTTP := service.NewHTTPClient(cfg.VendorAPITimeout)
	llmHTTP := service.NewHTTPClient(cfg.LLMTimeout)
	billClient := congress.NewClient(vendorHTTP, cfg.CongressBaseURL, cfg.CongressAPIKey)
	newsClient := news.NewClient(vendorHTTP, cfg.NewsBaseURL, cfg.NewsAPIKey, news.BraveFieldMap)
	llmClient := llm.NewClient(llmHTTP, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	ttsClient := tts.NewClient(llmHTTP, cfg.TTSBaseURL, cfg.TTSAPIKey)
	storeClient := objectstore.NewClient(vendorHTTP, cfg.StorageEndpoint, cfg.StorageBucket,
		cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StoragePublicURL)

	// Initialize services
	submitter := service.NewSubmitter(jobQueue, statusStore)
	retry := service.NewRetryStrategy(service.RetryConfig{})
	processor := service.NewProcessor(
		billClient,
		newsClient,
		llmClient,
		ttsClient,
		storeClient,
		episodeRepo,
		statusStore,
		jobQueue,
		retry,
		tts.EstimateDuration,
	)

	// Start worker pool
	pool := worker.NewPool(cfg.WorkerCount, jobQueue, processor.Process)
	pool.Start()

	// Start brief scheduler
	sched := scheduler.NewScheduler(cfg, submitter, lockRepo, subRepo)
	sched.Start(ctx)

	// Initialize handlers
	podcastHandler := handler.NewPodcastHandler(submitter, statusStore, jobQueue, processor, cfg.InternalSecret)
	episodeHandler := handler.NewEpisodeHandler(episodeRepo)
	healthHandler := handler.NewHealthHandler(db, redisClient, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(podcastHandler, episodeHandler, healthHandler, corsConfig)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop scheduler first so no new jobs get enqueued
	slog.Info("Stopping scheduler...")
	sched.Stop(shutdownCtx)

	// Stop workers; jobs still queued stay in Redis for the next start
	slog.Info("Stopping worker pool...")
	pool.Stop()

	// Shutdown HTTP server
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("HakiVo Podcast Service stopped")
}
