package mariadb

import (
	"context"
	"database/sql"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
)

type TestimonialRepository struct {
	db *sql.DB
}

// compile-time check: *TestimonialRepository must satisfy port.TestimonialRepository
var _ port.TestimonialRepository = (*TestimonialRepository)(nil)

func NewTestimonialRepository(db *sql.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	const query = `
      INSERT INTO testimonials
        (id, name, email, position, testimonial_type, playback_id, rating, campaign_id, message)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Email, t.Position,
		t.Type, t.PlaybackID, t.Rating,
		t.CampaignID, t.Message,
	)
	return err
}
