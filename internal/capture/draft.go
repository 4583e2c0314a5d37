package capture

import (
	"fmt"

	"github.com/fhuszti/testimonials-video-go/internal/validation"
)

type TestimonialType string

const (
	TestimonialVideo TestimonialType = "video"
	TestimonialText  TestimonialType = "text"
)

// SubmissionDraft is the form state of one submission.
type SubmissionDraft struct {
	Rating          int             `json:"rating" validate:"required,min=1,max=5"`
	Name            string          `json:"name" validate:"required,max=120"`
	Email           string          `json:"email" validate:"required,email,max=254"`
	Position        string          `json:"position" validate:"required,max=120"`
	Message         string          `json:"message,omitempty" validate:"omitempty,max=2000"`
	CampaignID      string          `json:"campaignId" validate:"omitempty,max=64"`
	TestimonialType TestimonialType `json:"testimonialType" validate:"required,oneof=video text"`
}

// NewDraft returns a video draft with every other field at its default.
func NewDraft(campaignID string) SubmissionDraft {
	return SubmissionDraft{CampaignID: campaignID, TestimonialType: TestimonialVideo}
}

func (d SubmissionDraft) Validate() error {
	if err := validation.ValidateStruct(d); err != nil {
		if fields := validation.FieldErrors(err); fields != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDraft, fields)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

// TestimonialRecord is the body of the final record creation call.
type TestimonialRecord struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Position        string          `json:"position"`
	TestimonialType TestimonialType `json:"testimonialType"`
	PlaybackID      string          `json:"playbackId,omitempty"`
	Rating          int             `json:"rating"`
	CampaignID      string          `json:"campaignId,omitempty"`
	Message         string          `json:"message,omitempty"`
}

func (d SubmissionDraft) Record(playbackID string) TestimonialRecord {
	return TestimonialRecord{
		Name:            d.Name,
		Email:           d.Email,
		Position:        d.Position,
		TestimonialType: d.TestimonialType,
		PlaybackID:      playbackID,
		Rating:          d.Rating,
		CampaignID:      d.CampaignID,
		Message:         d.Message,
	}
}
