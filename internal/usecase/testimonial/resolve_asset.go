package testimonial

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type assetResolverSrv struct {
	repo   port.UploadRepository
	strg   port.Storage
	tasks  port.TaskDispatcher
	bucket string
}

// compile-time check: *assetResolverSrv must satisfy port.AssetResolver
var _ port.AssetResolver = (*assetResolverSrv)(nil)

func NewAssetResolver(repo port.UploadRepository, strg port.Storage, tasks port.TaskDispatcher, stagingBucket string) port.AssetResolver {
	return &assetResolverSrv{repo: repo, strg: strg, tasks: tasks, bucket: stagingBucket}
}

// ResolveAsset answers ready or processing. A pending upload whose object has
// landed in staging is validated and handed to the transcoding queue here, so
// the client's polling is what moves an upload forward.
func (s *assetResolverSrv) ResolveAsset(ctx context.Context, id uuid.UUID) (port.AssetOutput, error) {
	upload, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return port.AssetOutput{}, err
	}

	switch upload.Status {
	case model.UploadStatusReady:
		if upload.PlaybackID == nil {
			return port.AssetOutput{}, fmt.Errorf("%w: upload #%s is ready without a playback id", ErrInternal, id)
		}
		return port.AssetOutput{Status: AssetStatusReady, PlaybackID: *upload.PlaybackID}, nil
	case model.UploadStatusProcessing:
		return port.AssetOutput{Status: AssetStatusProcessing}, nil
	case model.UploadStatusFailed:
		reason := "unknown reason"
		if upload.FailureMessage != nil {
			reason = *upload.FailureMessage
		}
		return port.AssetOutput{}, fmt.Errorf("%w: %s", ErrUploadFailed, reason)
	case model.UploadStatusPending:
		return s.admit(ctx, upload)
	default:
		return port.AssetOutput{}, fmt.Errorf("%w: upload #%s has unknown status %q", ErrInternal, id, upload.Status)
	}
}

func (s *assetResolverSrv) admit(ctx context.Context, upload *model.VideoUpload) (port.AssetOutput, error) {
	processing := port.AssetOutput{Status: AssetStatusProcessing}

	info, err := s.strg.StatFile(ctx, s.bucket, upload.ObjectKey)
	if errors.Is(err, ErrObjectNotFound) {
		// the client has not finished its PUT yet
		return processing, nil
	}
	if err != nil {
		return port.AssetOutput{}, fmt.Errorf("stats for file %q failed: %w", upload.ObjectKey, err)
	}

	var reason string
	switch {
	case info.SizeBytes < MinFileSize:
		reason = fmt.Sprintf("file %q too small: %d bytes (min size: %d bytes)", upload.ObjectKey, info.SizeBytes, MinFileSize)
	case info.SizeBytes > MaxFileSize:
		reason = fmt.Sprintf("file %q too large: %d bytes (max size: %d bytes)", upload.ObjectKey, info.SizeBytes, MaxFileSize)
	case !IsContentTypeAllowed(info.ContentType):
		reason = fmt.Sprintf("unsupported content type %q for file %q", info.ContentType, upload.ObjectKey)
	}
	if reason != "" {
		if err := s.strg.RemoveFile(context.Background(), s.bucket, upload.ObjectKey); err != nil {
			logger.Warnf(ctx, "cleanup failed for file %q: %v", upload.ObjectKey, err)
		}
		if err := markAsFailed(ctx, s.repo, upload, reason); err != nil {
			logger.Warnf(ctx, "markAsFailed failed for upload #%s: %v", upload.ID, err)
		}
		return port.AssetOutput{}, fmt.Errorf("%w: %s", ErrUploadFailed, reason)
	}

	size, ct := info.SizeBytes, info.ContentType
	upload.Status = model.UploadStatusProcessing
	upload.SizeBytes = &size
	upload.ContentType = &ct
	if err := s.repo.Update(ctx, upload); err != nil {
		return port.AssetOutput{}, fmt.Errorf("failed updating upload: %w", err)
	}

	if err := s.tasks.EnqueueTranscodeUpload(ctx, upload.ID); err != nil {
		// the backlog reprocessor picks up processing uploads that never ran
		logger.Warnf(ctx, "failed to enqueue transcode task for upload #%s: %v", upload.ID, err)
	} else {
		logger.Infof(ctx, "✅  Upload #%s staged (%d bytes), transcoding queued", upload.ID, size)
	}
	return processing, nil
}

func markAsFailed(ctx context.Context, repo port.UploadRepository, upload *model.VideoUpload, reason string) error {
	upload.Status = model.UploadStatusFailed
	upload.FailureMessage = &reason
	return repo.Update(ctx, upload)
}
