package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type httpRenderer struct {
	cache port.Cache
	ttl   time.Duration
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

func NewHTTPRenderer(cache port.Cache) port.HTTPRenderer {
	return &httpRenderer{cache: cache, ttl: testimonial.AssetCacheTTL}
}

// RenderAsset returns the JSON readiness answer for an upload. Only ready
// answers are immutable, so only those are cached and given an ETag.
func (r *httpRenderer) RenderAsset(ctx context.Context, resolver port.AssetResolver, id uuid.UUID) ([]byte, string, error) {
	raw, err := r.cache.GetAsset(ctx, id)
	etag, errEtag := r.cache.GetEtagAsset(ctx, id)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}

	out, err := resolver.ResolveAsset(ctx, id)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}
	if out.Status != testimonial.AssetStatusReady {
		return raw, "", nil
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	validUntil := time.Now().Add(r.ttl)
	r.cache.SetAsset(ctx, id, raw, validUntil)
	r.cache.SetEtagAsset(ctx, id, etag, validUntil)

	return raw, etag, nil
}
