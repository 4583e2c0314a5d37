package cache

import (
	"context"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetAsset(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagAsset(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (n *NoopCache) SetAsset(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {}

func (n *NoopCache) SetEtagAsset(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {}

func (n *NoopCache) DeleteAsset(ctx context.Context, id uuid.UUID) error { return nil }
