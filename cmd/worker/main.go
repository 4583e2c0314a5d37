package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/testimonials-video-go/internal/cache"
	"github.com/fhuszti/testimonials-video-go/internal/config"
	"github.com/fhuszti/testimonials-video-go/internal/db"
	workerHandler "github.com/fhuszti/testimonials-video-go/internal/handler/worker"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/storage"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/transcoder"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	tvuuid "github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()
	logger.Init("testimonials-worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	database := initDb(ctx, cfg)

	strg := initStorage(ctx, cfg)
	initBuckets(ctx, strg, cfg.Buckets())

	repo := mariadb.NewUploadRepository(database.DB)
	tr := transcoder.NewTranscoder(cfg.FFmpegPath, transcoder.ExecRunner, transcoder.ChaiWebP{})
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	transcodeSvc := testimonial.NewUploadTranscoder(
		repo, tr, strg, ca,
		cfg.StagingBucket, cfg.PlaybackBucket,
		tvuuid.NewPlaybackID,
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeTranscodeUpload, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseTranscodeUploadPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.TranscodeUploadHandler(ctx, p, transcodeSvc)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(ctx, cfg.DBPool())
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.New(ctx, storage.Options{
		Driver:         cfg.StorageDriver,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioUseSSL:    cfg.MinioUseSSL,
		S3: storage.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		},
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize %s storage: %v", cfg.StorageDriver, err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(ctx context.Context, strg port.Storage, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(ctx, b); err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		// transcoding is CPU bound
		Concurrency: 2,
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(ctx, "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, wait for in-flight ones
	srv.Shutdown()

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
