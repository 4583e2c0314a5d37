package main

import (
	"context"
	"os"

	"github.com/fhuszti/testimonials-video-go/internal/config"
	"github.com/fhuszti/testimonials-video-go/internal/db"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/migration"
)

func main() {
	ctx := context.Background()
	logger.Init("testimonials-migrate")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	database, err := initDb(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	if err := migration.MigrateUp(ctx, database.DB); err != nil {
		logger.Errorf(ctx, "❌  Migration up failed: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "✅  Migrations applied successfully")
}

func initDb(ctx context.Context, cfg *config.Settings) (*db.Database, error) {
	pool := cfg.DBPool()
	pool.MultiStatements = true
	return db.New(ctx, pool)
}
