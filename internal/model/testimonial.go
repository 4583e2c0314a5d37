package model

import (
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type TestimonialType string

const (
	TestimonialTypeVideo TestimonialType = "video"
	TestimonialTypeText  TestimonialType = "text"
)

type Testimonial struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Position   string          `json:"position"`
	Type       TestimonialType `json:"testimonialType"`
	PlaybackID *string         `json:"playbackId,omitempty"`
	Rating     int             `json:"rating"`
	CampaignID *string         `json:"campaignId,omitempty"`
	Message    *string         `json:"message,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
