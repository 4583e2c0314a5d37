package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/cache"
	"github.com/fhuszti/testimonials-video-go/internal/config"
	"github.com/fhuszti/testimonials-video-go/internal/db"
	"github.com/fhuszti/testimonials-video-go/internal/handler/api"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	cMiddleware "github.com/fhuszti/testimonials-video-go/internal/middleware"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/renderer"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/storage"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	tvuuid "github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx := context.Background()
	logger.Init("testimonials-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	database := initDb(ctx, cfg)

	r := initRouter(ctx, cfg.JWTPublicKey)

	strg := initStorage(ctx, cfg)
	initBuckets(ctx, strg, cfg.Buckets())

	uploadRepo := mariadb.NewUploadRepository(database.DB)
	testimonialRepo := mariadb.NewTestimonialRepository(database.DB)
	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache and task queue enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured, caching and transcoding are disabled")
	}

	ticketSvc := testimonial.NewTicketIssuer(uploadRepo, strg, cfg.StagingBucket, tvuuid.NewUUID)
	r.With(cMiddleware.RateLimit(cfg.TicketRateLimit, time.Minute)).
		Post("/testimonials/create-video-upload", api.CreateVideoUploadHandler(ticketSvc, cfg.JWTPublicKey != ""))

	assetSvc := testimonial.NewAssetResolver(uploadRepo, strg, dispatcher, cfg.StagingBucket)
	rendererSvc := renderer.NewHTTPRenderer(ca)
	r.With(cMiddleware.WithUploadID()).
		Get("/testimonials/get-asset-from-upload/{uploadId}", api.GetAssetFromUploadHandler(rendererSvc, assetSvc))

	creatorSvc := testimonial.NewTestimonialCreator(testimonialRepo, uploadRepo, tvuuid.NewUUID)
	r.Post("/testimonials/create", api.CreateTestimonialHandler(creatorSvc))

	listenRouter(ctx, r, cfg, database)
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

func initRouter(ctx context.Context, jwtKey string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.WithAuth(jwtKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Handle("/metrics", promhttp.Handler())

	return r
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

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
