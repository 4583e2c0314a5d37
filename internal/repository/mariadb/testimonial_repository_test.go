package mariadb

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

func TestTestimonialRepository_Create(t *testing.T) {
	pb := "0123456789abcdef0123456789abcdef"
	tm := &model.Testimonial{
		ID:         uuid.NewUUID(),
		Name:       "Ada",
		Email:      "ada@example.com",
		Position:   "CTO",
		Type:       model.TestimonialTypeVideo,
		PlaybackID: &pb,
		Rating:     5,
	}

	tests := []struct {
		name    string
		execErr error
	}{
		{"success", nil},
		{"exec error", errors.New("db.Exec failed")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("unexpected error when opening stub database: %s", err)
			}
			defer func() { _ = sqlDB.Close() }()

			exp := mock.ExpectExec(regexp.QuoteMeta("INSERT INTO testimonials")).
				WithArgs(tm.ID, tm.Name, tm.Email, tm.Position, tm.Type, tm.PlaybackID, tm.Rating, nil, nil)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = NewTestimonialRepository(sqlDB).Create(context.Background(), tm)
			if !errors.Is(err, tc.execErr) {
				t.Errorf("Create() error = %v, want %v", err, tc.execErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}
