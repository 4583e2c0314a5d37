package testimonial

import (
	"context"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
)

type backlogReprocessorSrv struct {
	repo     port.UploadRepository
	tasks    port.TaskDispatcher
	resolver port.AssetResolver
}

// compile-time check: *backlogReprocessorSrv must satisfy port.BacklogReprocessor
var _ port.BacklogReprocessor = (*backlogReprocessorSrv)(nil)

func NewBacklogReprocessor(repo port.UploadRepository, tasks port.TaskDispatcher, resolver port.AssetResolver) port.BacklogReprocessor {
	return &backlogReprocessorSrv{repo: repo, tasks: tasks, resolver: resolver}
}

// ReprocessBacklog re-enqueues uploads stuck in processing for more than an
// hour, and runs admission for pending uploads whose client stopped polling
// after the PUT.
func (s *backlogReprocessorSrv) ReprocessBacklog(ctx context.Context) error {
	cutoff := time.Now().Add(-StuckAfter)

	ids, err := s.repo.ListByStatusBefore(ctx, model.UploadStatusProcessing, cutoff)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		logger.Info(ctx, "no stuck uploads found to transcode")
	}
	for _, id := range ids {
		logger.Infof(ctx, "re-enqueueing transcode for upload #%s", id)
		if err := s.tasks.EnqueueTranscodeUpload(ctx, id); err != nil {
			logger.Warnf(ctx, "failed to enqueue transcode task for upload #%s: %v", id, err)
		}
	}

	pending, err := s.repo.ListByStatusBefore(ctx, model.UploadStatusPending, cutoff)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info(ctx, "no pending uploads found to admit")
	}
	for _, id := range pending {
		out, err := s.resolver.ResolveAsset(ctx, id)
		if err != nil {
			logger.Warnf(ctx, "admission failed for upload #%s: %v", id, err)
			continue
		}
		logger.Debugf(ctx, "pending upload #%s is now %s", id, out.Status)
	}
	return nil
}
