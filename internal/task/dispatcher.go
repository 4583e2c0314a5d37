package task

import (
	"context"
	"errors"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

// EnqueueTranscodeUpload treats an already queued task for the same upload as success.
func (d *Dispatcher) EnqueueTranscodeUpload(ctx context.Context, id uuid.UUID) error {
	t, err := NewTranscodeUploadTask(id.String())
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			logger.Debugf(ctx, "transcode for upload #%s already queued", id)
			return nil
		}
		return err
	}
	return nil
}
