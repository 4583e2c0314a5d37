package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/hibiken/asynq"
)

// TranscodeUploadHandler handles an upload:transcode task. Uploads already
// marked failed are not retried.
func TranscodeUploadHandler(ctx context.Context, p task.TranscodeUploadPayload, svc port.UploadTranscoder) error {
	id, err := uuid.Parse(p.UploadID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid upload ID %q: %v", p.UploadID, err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	if err := svc.TranscodeUpload(ctx, id); err != nil {
		logger.Errorf(ctx, "❌  Failed to transcode upload #%s: %v", id, err)
		if errors.Is(err, testimonial.ErrUploadFailed) || errors.Is(err, testimonial.ErrUploadNotFound) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}

	logger.Infof(ctx, "✅  Successfully transcoded upload #%s", id)
	return nil
}
