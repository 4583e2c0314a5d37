package renderer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/mock"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

func TestRenderAsset_Cases(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewUUID()

	t.Run("cache hit", func(t *testing.T) {
		c := &mock.Cache{AssetOut: []byte(`{"status":"ready"}`), EtagAsset: "\"1234\""}
		resolver := &mock.MockAssetResolver{}

		out, etag, err := NewHTTPRenderer(c).RenderAsset(ctx, resolver, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != string(c.AssetOut) {
			t.Errorf("raw mismatch: got %s want %s", out, c.AssetOut)
		}
		if etag != c.EtagAsset {
			t.Errorf("etag mismatch: got %s want %s", etag, c.EtagAsset)
		}
		if resolver.Calls != 0 {
			t.Error("resolver should not be called on cache hit")
		}
		if c.SetAssetCalled || c.SetEtagAssetCalled {
			t.Error("cache should not be set on hit")
		}
	})

	t.Run("ready miss is cached", func(t *testing.T) {
		c := &mock.Cache{}
		resp := port.AssetOutput{Status: "ready", PlaybackID: "pb_123456"}
		resolver := &mock.MockAssetResolver{Out: resp}

		out, etag, err := NewHTTPRenderer(c).RenderAsset(ctx, resolver, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected, _ := json.Marshal(resp)
		if string(out) != string(expected) {
			t.Errorf("raw mismatch: got %s want %s", out, expected)
		}
		if expEtag := fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(expected)); etag != expEtag {
			t.Errorf("etag mismatch: got %s want %s", etag, expEtag)
		}
		if !c.SetAssetCalled || !c.SetEtagAssetCalled {
			t.Error("ready answer should be cached")
		}
		if c.SetEtag != etag {
			t.Errorf("cached etag %s; want %s", c.SetEtag, etag)
		}
	})

	t.Run("processing is never cached", func(t *testing.T) {
		c := &mock.Cache{}
		resolver := &mock.MockAssetResolver{Out: port.AssetOutput{Status: "processing"}}

		out, etag, err := NewHTTPRenderer(c).RenderAsset(ctx, resolver, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != `{"status":"processing"}` {
			t.Errorf("raw = %s", out)
		}
		if etag != "" {
			t.Errorf("etag = %q; want empty", etag)
		}
		if c.SetAssetCalled {
			t.Error("processing answer must not be cached")
		}
	})

	t.Run("cache error falls back to resolver", func(t *testing.T) {
		c := &mock.Cache{GetAssetErr: errors.New("redis down")}
		resolver := &mock.MockAssetResolver{Out: port.AssetOutput{Status: "processing"}}

		if _, _, err := NewHTTPRenderer(c).RenderAsset(ctx, resolver, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolver.Calls != 1 {
			t.Errorf("resolver calls = %d; want 1", resolver.Calls)
		}
	})

	t.Run("resolver error", func(t *testing.T) {
		c := &mock.Cache{}
		wantErr := errors.New("boom")
		resolver := &mock.MockAssetResolver{Err: wantErr}

		_, _, err := NewHTTPRenderer(c).RenderAsset(ctx, resolver, id)
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v; want %v", err, wantErr)
		}
		if c.SetAssetCalled {
			t.Error("errors must not be cached")
		}
	})
}
