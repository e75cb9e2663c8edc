package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/image-watermark/internal/config"
	"github.com/phambaophuc/image-watermark/internal/http/handlers"
	"github.com/phambaophuc/image-watermark/internal/http/routes"
	"github.com/phambaophuc/image-watermark/internal/services/batch"
	"github.com/phambaophuc/image-watermark/internal/services/preset"
	"github.com/phambaophuc/image-watermark/internal/services/processor"
	"github.com/phambaophuc/image-watermark/internal/services/queue"
	"github.com/phambaophuc/image-watermark/internal/services/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Watermark engine
	fontOpts := []processor.FontOption{processor.WithBundledFont(cfg.Watermark.BundledFont)}
	if len(cfg.Watermark.FontDirs) > 0 {
		fontOpts = append(fontOpts, processor.WithFontDirs(cfg.Watermark.FontDirs...))
	}
	fonts := processor.NewFontResolver(logger, fontOpts...)
	imageProcessor := processor.NewImageProcessor(fonts,
		processor.WithMargin(cfg.Watermark.Margin),
		processor.WithLogger(logger))
	exporter := batch.NewExporter(imageProcessor, logger, batch.WithWorkers(cfg.Watermark.Workers))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis is not reachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	objects, err := storage.NewObjectStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object store", zap.Error(err))
	}
	storageService := storage.NewStorageService(objects, redisClient, cfg.Storage.CacheDuration, logger)
	logger.Info("Object store ready", zap.String("backend", storageService.Backend()))

	var presets preset.Store
	switch cfg.Presets.Backend {
	case config.PresetsRedis:
		presets = preset.NewRedisStore(redisClient, preset.DefaultRedisKey)
	default:
		presets = preset.NewFileStore(cfg.Presets.File)
	}

	// The queue is optional; the synchronous endpoints work without it.
	var jobQueue handlers.JobQueue
	queueService, err := queue.NewQueueService(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Queue,
		imageProcessor,
		storageService,
		cfg.Storage.MaxFileSize,
		logger,
	)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
	} else {
		defer queueService.Close()
		jobQueue = queueService
		for i := 1; i <= cfg.RabbitMQ.Workers; i++ {
			if err := queueService.StartWorker(ctx, i); err != nil {
				logger.Error("Failed to start queue worker", zap.Int("worker_id", i), zap.Error(err))
			}
		}
	}

	// Initialize handlers
	watermarkHandler := handlers.NewWatermarkHandler(
		imageProcessor,
		exporter,
		storageService,
		jobQueue,
		presets,
		logger,
		cfg,
	)

	router := routes.NewRouter(watermarkHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
