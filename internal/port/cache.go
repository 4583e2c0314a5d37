package port

import (
	"context"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// Cache keeps the rendered readiness answer of ready uploads.
type Cache interface {
	GetAsset(ctx context.Context, uploadID uuid.UUID) ([]byte, error)
	GetEtagAsset(ctx context.Context, uploadID uuid.UUID) (string, error)
	SetAsset(ctx context.Context, uploadID uuid.UUID, data []byte, validUntil time.Time)
	SetEtagAsset(ctx context.Context, uploadID uuid.UUID, etag string, validUntil time.Time)
	DeleteAsset(ctx context.Context, uploadID uuid.UUID) error
}
