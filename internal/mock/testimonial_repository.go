package mock

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/model"
)

type MockTestimonialRepo struct {
	CreateErr error
	Created   *model.Testimonial
}

func (m *MockTestimonialRepo) Create(ctx context.Context, t *model.Testimonial) error {
	m.Created = t
	return m.CreateErr
}
