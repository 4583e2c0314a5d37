package port

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// HTTPRenderer mediates between HTTP handlers and the asset resolver.
// Ready answers are cached and come back with an ETag; non-ready answers
// are rendered fresh and carry an empty ETag.
type HTTPRenderer interface {
	RenderAsset(ctx context.Context, resolver AssetResolver, uploadID uuid.UUID) ([]byte, string, error)
}
