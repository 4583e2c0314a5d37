package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetAsset(ctx context.Context, id uuid.UUID) ([]byte, error) {
	val, err := c.client.Get(ctx, assetKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagAsset(ctx context.Context, id uuid.UUID) (string, error) {
	val, err := c.client.Get(ctx, etagKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// SetAsset is best effort: a failed write only costs a cache miss.
func (c *Cache) SetAsset(ctx context.Context, id uuid.UUID, data []byte, validUntil time.Time) {
	logger.Debugf(ctx, "caching asset of upload #%s until %s", id, validUntil.Format(time.RFC1123))
	if err := c.client.Set(ctx, assetKey(id), data, time.Until(validUntil)).Err(); err != nil {
		logger.Warnf(ctx, "redis set failed for upload #%s: %v", id, err)
	}
}

func (c *Cache) SetEtagAsset(ctx context.Context, id uuid.UUID, etag string, validUntil time.Time) {
	if err := c.client.Set(ctx, etagKey(id), etag, time.Until(validUntil)).Err(); err != nil {
		logger.Warnf(ctx, "redis set etag failed for upload #%s: %v", id, err)
	}
}

func (c *Cache) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, assetKey(id), etagKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func assetKey(id uuid.UUID) string {
	return "asset:" + id.String()
}

func etagKey(id uuid.UUID) string {
	return "asset:etag:" + id.String()
}
