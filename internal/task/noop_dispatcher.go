package task

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueTranscodeUpload(ctx context.Context, id uuid.UUID) error {
	logger.Warnf(ctx, "⚠️  queue disabled, upload #%s will not be transcoded", id)
	return nil
}
