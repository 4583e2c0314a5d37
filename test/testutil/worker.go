package testutil

import (
	"context"
	"database/sql"

	"github.com/fhuszti/testimonials-video-go/internal/cache"
	workerHandler "github.com/fhuszti/testimonials-video-go/internal/handler/worker"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/transcoder"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	tvuuid "github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing transcode tasks with ffmpeg
// replaced by FakeFFmpeg(frame). It returns a function to gracefully shut
// down the worker.
func StartWorker(dbConn *sql.DB, tb *TestBuckets, redisAddr string, frame []byte) func() {
	repo := mariadb.NewUploadRepository(dbConn)
	tr := transcoder.NewTranscoder("ffmpeg", FakeFFmpeg(frame), transcoder.ChaiWebP{})
	transcodeSvc := testimonial.NewUploadTranscoder(
		repo, tr, tb.Storage, cache.NewCache(redisAddr, ""),
		tb.Staging, tb.Playback,
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

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	if err := srv.Start(mux); err != nil {
		logger.Errorf(context.Background(), "worker failed to start: %v", err)
		return func() {}
	}

	return func() {
		srv.Shutdown()
	}
}
