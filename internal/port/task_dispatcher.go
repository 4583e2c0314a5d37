package port

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous work on uploaded recordings.
type TaskDispatcher interface {
	EnqueueTranscodeUpload(ctx context.Context, uploadID uuid.UUID) error
}
