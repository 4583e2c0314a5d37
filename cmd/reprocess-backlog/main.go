package main

import (
	"context"
	"os"

	"github.com/fhuszti/testimonials-video-go/internal/config"
	"github.com/fhuszti/testimonials-video-go/internal/db"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/storage"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
)

func main() {
	ctx := context.Background()
	logger.Init("testimonials-reprocess-backlog")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	database := initDb(ctx, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	dispatcher := initDispatcher(ctx, cfg)
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

	repo := mariadb.NewUploadRepository(database.DB)
	resolver := testimonial.NewAssetResolver(repo, strg, dispatcher, cfg.StagingBucket)

	reprocessor := testimonial.NewBacklogReprocessor(repo, dispatcher, resolver)
	if err := reprocessor.ReprocessBacklog(ctx); err != nil {
		logger.Errorf(ctx, "❌  Backlog reprocessing failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Backlog reprocessing completed")
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

func initDispatcher(ctx context.Context, cfg *config.Settings) port.TaskDispatcher {
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "❌  Redis not configured: this command requires a running Redis instance")
		os.Exit(1)
	}
	return task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
}
