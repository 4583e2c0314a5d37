package mock

import (
	"context"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	AssetOut  []byte
	EtagAsset string

	// captured inputs
	SetData    []byte
	SetEtag    string
	ValidUntil time.Time

	// errors
	GetAssetErr     error
	GetEtagAssetErr error
	DelAssetErr     error

	// call flags
	GetAssetCalled     bool
	GetEtagAssetCalled bool
	SetAssetCalled     bool
	SetEtagAssetCalled bool
	DelAssetCalled     bool
}

func (c *Cache) GetAsset(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c.GetAssetCalled = true
	if c.GetAssetErr != nil {
		return nil, c.GetAssetErr
	}
	return c.AssetOut, nil
}

func (c *Cache) GetEtagAsset(ctx context.Context, id uuid.UUID) (string, error) {
	c.GetEtagAssetCalled = true
	if c.GetEtagAssetErr != nil {
		return "", c.GetEtagAssetErr
	}
	return c.EtagAsset, nil
}

func (c *Cache) SetAsset(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
	c.SetAssetCalled = true
	c.SetData = data
	c.ValidUntil = validUntil
}

func (c *Cache) SetEtagAsset(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
	c.SetEtagAssetCalled = true
	c.SetEtag = etag
}

func (c *Cache) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	c.DelAssetCalled = true
	return c.DelAssetErr
}
