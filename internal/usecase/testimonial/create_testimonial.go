package testimonial

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
)

type testimonialCreatorSrv struct {
	repo    port.TestimonialRepository
	uploads port.UploadRepository
	genUUID port.UUIDGen
}

// compile-time check: *testimonialCreatorSrv must satisfy port.TestimonialCreator
var _ port.TestimonialCreator = (*testimonialCreatorSrv)(nil)

func NewTestimonialCreator(repo port.TestimonialRepository, uploads port.UploadRepository, genUUID port.UUIDGen) port.TestimonialCreator {
	return &testimonialCreatorSrv{repo: repo, uploads: uploads, genUUID: genUUID}
}

func (s *testimonialCreatorSrv) CreateTestimonial(ctx context.Context, in port.CreateTestimonialInput) (*model.Testimonial, error) {
	t := &model.Testimonial{
		ID:       s.genUUID(),
		Name:     in.Name,
		Email:    in.Email,
		Position: in.Position,
		Type:     in.Type,
		Rating:   in.Rating,
	}
	if in.CampaignID != "" {
		t.CampaignID = &in.CampaignID
	}
	if in.Message != "" {
		t.Message = &in.Message
	}

	if in.Type == model.TestimonialTypeVideo {
		if err := s.checkPlayback(ctx, in); err != nil {
			return nil, err
		}
		t.PlaybackID = &in.PlaybackID
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed creating testimonial: %w", err)
	}

	logger.Infof(ctx, "testimonial #%s stored (%s, rating %d)", t.ID, t.Type, t.Rating)
	return t, nil
}

func (s *testimonialCreatorSrv) checkPlayback(ctx context.Context, in port.CreateTestimonialInput) error {
	if in.PlaybackID == "" {
		return ErrPlaybackRequired
	}

	upload, err := s.uploads.GetByPlaybackID(ctx, in.PlaybackID)
	if errors.Is(err, ErrUploadNotFound) {
		return fmt.Errorf("%w: %q", ErrPlaybackNotFound, in.PlaybackID)
	}
	if err != nil {
		return err
	}
	if upload.Status != model.UploadStatusReady {
		return fmt.Errorf("%w: upload #%s is %q", ErrPlaybackNotReady, upload.ID, upload.Status)
	}
	if upload.CampaignID != nil && in.CampaignID != "" && *upload.CampaignID != in.CampaignID {
		return ErrCampaignMismatch
	}
	return nil
}
