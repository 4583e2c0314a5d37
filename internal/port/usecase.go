package port

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// TicketIssuer registers a pending upload and returns a presigned PUT target for it.
type TicketIssuer interface {
	IssueTicket(ctx context.Context, in IssueTicketInput) (IssueTicketOutput, error)
}
type IssueTicketInput struct {
	CampaignID *string
}
type IssueTicketOutput struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// AssetResolver reports whether an upload has become a playable asset.
type AssetResolver interface {
	ResolveAsset(ctx context.Context, uploadID uuid.UUID) (AssetOutput, error)
}
type AssetOutput struct {
	Status     string `json:"status"`
	PlaybackID string `json:"playbackId,omitempty"`
}

// TestimonialCreator stores the final testimonial record.
type TestimonialCreator interface {
	CreateTestimonial(ctx context.Context, in CreateTestimonialInput) (*model.Testimonial, error)
}
type CreateTestimonialInput struct {
	Name       string
	Email      string
	Position   string
	Type       model.TestimonialType
	PlaybackID string
	Rating     int
	CampaignID string
	Message    string
}

// UploadTranscoder runs the worker side of an upload: transcode, store, mark ready.
type UploadTranscoder interface {
	TranscodeUpload(ctx context.Context, uploadID uuid.UUID) error
}

// BacklogReprocessor re-enqueues uploads that never reached a terminal state.
type BacklogReprocessor interface {
	ReprocessBacklog(ctx context.Context) error
}
