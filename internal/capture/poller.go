package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollAttempts = 30
)

type AssetStatus int

const (
	AssetUnknown AssetStatus = iota
	AssetProcessing
	AssetReady
)

func (s AssetStatus) String() string {
	switch s {
	case AssetProcessing:
		return "processing"
	case AssetReady:
		return "ready"
	default:
		return "unknown"
	}
}

type AssetReadiness struct {
	Status     AssetStatus
	PlaybackID string
}

// AssetStatusSource answers one readiness query. Processing is a normal
// answer, not an error.
type AssetStatusSource interface {
	GetAssetFromUpload(ctx context.Context, uploadID string) (AssetReadiness, error)
}

type Poller struct {
	source      AssetStatusSource
	interval    time.Duration
	maxAttempts int

	group singleflight.Group
}

// NewPoller falls back to the default cadence for non-positive arguments.
func NewPoller(source AssetStatusSource, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollAttempts
	}
	return &Poller{source: source, interval: interval, maxAttempts: maxAttempts}
}

// Poll resolves uploadID to a playback id. Concurrent calls for the same id
// share one polling loop and its result.
func (p *Poller) Poll(ctx context.Context, uploadID string) (string, error) {
	v, err, _ := p.group.Do(uploadID, func() (interface{}, error) {
		return p.poll(ctx, uploadID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *Poller) poll(ctx context.Context, uploadID string) (string, error) {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		r, err := p.source.GetAssetFromUpload(ctx, uploadID)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
			}
			if errors.Is(err, ErrAssetTransport) {
				return "", err
			}
			return "", fmt.Errorf("%w: %v", ErrAssetTransport, err)
		}

		switch r.Status {
		case AssetReady:
			if r.PlaybackID == "" {
				return "", fmt.Errorf("%w: ready without playback id", ErrAssetTransport)
			}
			logger.Infof(ctx, "✅  Upload %s ready as %s after %d attempt(s)", uploadID, r.PlaybackID, attempt)
			return r.PlaybackID, nil
		case AssetProcessing:
			logger.Debugf(ctx, "upload %s still processing (attempt %d/%d)", uploadID, attempt, p.maxAttempts)
		default:
			return "", fmt.Errorf("%w: unexpected asset status %s", ErrAssetTransport, r.Status)
		}

		if attempt == p.maxAttempts {
			break
		}

		timer.Reset(p.interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
	}

	logger.Warnf(ctx, "⏳  Upload %s not ready after %d attempts", uploadID, p.maxAttempts)
	return "", fmt.Errorf("%w: %d attempts over %s", ErrProcessingTimeout, p.maxAttempts, time.Duration(p.maxAttempts)*p.interval)
}
