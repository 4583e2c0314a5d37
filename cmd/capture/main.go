package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
	"github.com/fhuszti/testimonials-video-go/internal/config"
	"github.com/fhuszti/testimonials-video-go/internal/device"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/testimonialsapi"
)

func main() {
	ctx := context.Background()
	// stdout belongs to the console
	logger.InitWriter("testimonials-capture", os.Stderr)

	cfg, err := config.LoadCapture()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	pipeline := initPipeline(ctx, cfg)

	con := newConsole(pipeline, os.Stdin, os.Stdout, cfg.CampaignID)
	pipeline.OnTransition(con.OnTransition)
	pipeline.OnProgress(con.OnProgress)

	// the first interrupt cancels what is in progress, the second one exits
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info(ctx, "🛑 Interrupt received, canceling…")
		pipeline.Cancel()
		<-sigCh
		_ = pipeline.Close()
		os.Exit(130)
	}()

	con.Run(ctx)

	if err := pipeline.Close(); err != nil {
		logger.Warnf(ctx, "⚠️  Pipeline close error: %v", err)
	}
}

func initPipeline(ctx context.Context, cfg *config.CaptureSettings) *capture.Pipeline {
	mode, err := testimonialsapi.ParseMode(cfg.UploadMode)
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	video, err := device.ParseInput(cfg.VideoInput)
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	audio, err := device.ParseInput(cfg.AudioInput)
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	api := testimonialsapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, cfg.Token, mode)

	sessions := capture.NewSessionManager(device.NewFFmpegDevice(video, audio))
	recorder := capture.NewRecorder(device.NewFFmpegEncoder(cfg.FFmpegPath, cfg.MaxDuration, device.ExecRunner), sessions)
	// uploads can outlast the API timeout; they are bounded by cancel instead
	uploader := capture.NewUploader(api, &http.Client{})
	poller := capture.NewPoller(api, cfg.PollInterval, cfg.PollAttempts)

	logger.Infof(ctx, "🚀 Capture client ready (%s mode, api %s)", mode, cfg.APIBaseURL)
	return capture.NewPipeline(capture.Stages{
		Sessions: sessions,
		Recorder: recorder,
		Uploader: uploader,
		Poller:   poller,
		Creator:  api,
		Surface:  newTerminalSurface(os.Stdout),
	})
}
