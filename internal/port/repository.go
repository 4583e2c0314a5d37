package port

import (
	"context"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// UploadRepository defines persistence operations for video uploads.
type UploadRepository interface {
	Create(ctx context.Context, upload *model.VideoUpload) error
	Update(ctx context.Context, upload *model.VideoUpload) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.VideoUpload, error)
	GetByPlaybackID(ctx context.Context, playbackID string) (*model.VideoUpload, error)
	ListByStatusBefore(ctx context.Context, status model.UploadStatus, before time.Time) ([]uuid.UUID, error)
}

// TestimonialRepository persists final testimonial records.
type TestimonialRepository interface {
	Create(ctx context.Context, t *model.Testimonial) error
}
