package testimonial

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/metrics"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
	"golang.org/x/sync/errgroup"
)

type uploadTranscoderSrv struct {
	repo           port.UploadRepository
	transcoder     port.Transcoder
	strg           port.Storage
	cache          port.Cache
	stagingBucket  string
	playbackBucket string
	genPlaybackID  func() string
}

// compile-time check: *uploadTranscoderSrv must satisfy port.UploadTranscoder
var _ port.UploadTranscoder = (*uploadTranscoderSrv)(nil)

func NewUploadTranscoder(
	repo port.UploadRepository,
	transcoder port.Transcoder,
	strg port.Storage,
	cache port.Cache,
	stagingBucket, playbackBucket string,
	genPlaybackID func() string,
) port.UploadTranscoder {
	return &uploadTranscoderSrv{
		repo:           repo,
		transcoder:     transcoder,
		strg:           strg,
		cache:          cache,
		stagingBucket:  stagingBucket,
		playbackBucket: playbackBucket,
		genPlaybackID:  genPlaybackID,
	}
}

// TranscodeUpload produces the playback rendition of a processing upload and
// marks it ready. Failures are terminal: they are wrapped in ErrUploadFailed,
// the upload is marked failed and the staged file is removed.
func (s *uploadTranscoderSrv) TranscodeUpload(ctx context.Context, id uuid.UUID) (err error) {
	upload, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if upload.Status == model.UploadStatusReady {
		logger.Infof(ctx, "upload #%s is already ready, nothing to do", id)
		return nil
	}
	if upload.Status != model.UploadStatusProcessing {
		return fmt.Errorf("%w: upload #%s should be %q to be transcoded, got %q", ErrUploadFailed, id, model.UploadStatusProcessing, upload.Status)
	}

	start := time.Now()
	var finalErr error
	defer func() {
		metrics.ObserveTranscode(start, finalErr)
		if finalErr != nil {
			if err := s.strg.RemoveFile(context.Background(), s.stagingBucket, upload.ObjectKey); err != nil {
				logger.Warnf(ctx, "cleanup failed for file %q: %v", upload.ObjectKey, err)
			}
			if markErr := markAsFailed(ctx, s.repo, upload, finalErr.Error()); markErr != nil {
				logger.Warnf(ctx, "markAsFailed failed for upload #%s: %v", id, markErr)
			}
			err = fmt.Errorf("%w: %v", ErrUploadFailed, finalErr)
		}
	}()

	src, err := s.strg.GetFile(ctx, s.stagingBucket, upload.ObjectKey)
	if err != nil {
		finalErr = fmt.Errorf("reading staged file %q failed: %w", upload.ObjectKey, err)
		return finalErr
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warnf(ctx, "failed to close staged file %q: %v", upload.ObjectKey, err)
		}
	}()

	rendition, err := s.transcoder.Transcode(ctx, src)
	if err != nil {
		finalErr = fmt.Errorf("transcoding %q failed: %w", upload.ObjectKey, err)
		return finalErr
	}
	defer func() {
		if err := rendition.Close(); err != nil {
			logger.Warnf(ctx, "failed to clean rendition of upload #%s: %v", id, err)
		}
	}()

	playbackID := s.genPlaybackID()
	meta, err := s.store(ctx, playbackID, rendition)
	if err != nil {
		finalErr = err
		return finalErr
	}

	upload.Status = model.UploadStatusReady
	upload.PlaybackID = &playbackID
	upload.FailureMessage = nil
	upload.Metadata = meta
	if err := s.repo.Update(ctx, upload); err != nil {
		finalErr = fmt.Errorf("failed updating upload: %w", err)
		return finalErr
	}

	if err := s.strg.RemoveFile(ctx, s.stagingBucket, upload.ObjectKey); err != nil {
		logger.Warnf(ctx, "failed to clean up file %q in staging: %v", upload.ObjectKey, err)
	}
	if err := s.cache.DeleteAsset(ctx, id); err != nil {
		logger.Warnf(ctx, "failed to invalidate cached asset for upload #%s: %v", id, err)
	}

	logger.Infof(ctx, "✅  Upload #%s is ready as playback %s", id, playbackID)
	return nil
}

func (s *uploadTranscoderSrv) store(ctx context.Context, playbackID string, r port.Rendition) (model.VideoMetadata, error) {
	meta := model.VideoMetadata{
		Width:     r.Width(),
		Height:    r.Height(),
		VideoKey:  VideoObjectKey(playbackID),
		PosterKey: PosterObjectKey(playbackID),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		video, size, err := r.Video()
		if err != nil {
			return fmt.Errorf("opening rendition failed: %w", err)
		}
		defer video.Close()

		meta.VideoSizeBytes = size
		if err := s.strg.SaveFile(gctx, s.playbackBucket, meta.VideoKey, video, size, map[string]string{"Content-Type": "video/mp4"}); err != nil {
			return fmt.Errorf("saving %q failed: %w", meta.VideoKey, err)
		}
		return nil
	})
	g.Go(func() error {
		poster := r.Poster()
		if err := s.strg.SaveFile(gctx, s.playbackBucket, meta.PosterKey, bytes.NewReader(poster), int64(len(poster)), map[string]string{"Content-Type": "image/webp"}); err != nil {
			return fmt.Errorf("saving %q failed: %w", meta.PosterKey, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.VideoMetadata{}, err
	}
	return meta, nil
}
