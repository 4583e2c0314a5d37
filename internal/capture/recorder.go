package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
)

// Capture is one running encode. Chunks is closed once every buffered chunk
// has been delivered, after Stop or after a failure; Err is valid from then on.
type Capture interface {
	Chunks() <-chan []byte
	Stop()
	Err() error
}

type Encoder interface {
	Start(ctx context.Context, tracks []Track) (Capture, error)
}

type RecordingState int

const (
	RecordingIdle RecordingState = iota
	RecordingActive
	RecordingStopped
)

// RecordingSession collects the chunks of one capture tied to one MediaSession.
type RecordingSession struct {
	media   *MediaSession
	capture Capture

	mu        sync.Mutex
	state     RecordingState
	chunks    [][]byte
	blob      *Blob
	err       error
	discarded bool

	stopOnce sync.Once
	done     chan struct{}
}

func (r *RecordingSession) State() RecordingState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Chunks returns the chunks received so far in delivery order.
func (r *RecordingSession) Chunks() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.chunks))
	copy(out, r.chunks)
	return out
}

// Blob is nil until the session is stopped.
func (r *RecordingSession) Blob() *Blob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blob
}

// Err is the finalize error, nil while recording or on success.
func (r *RecordingSession) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Done is closed when finalize has completed.
func (r *RecordingSession) Done() <-chan struct{} { return r.done }

type Recorder struct {
	encoder  Encoder
	sessions *SessionManager
}

func NewRecorder(encoder Encoder, sessions *SessionManager) *Recorder {
	return &Recorder{encoder: encoder, sessions: sessions}
}

func (rc *Recorder) Start(ctx context.Context, media *MediaSession) (*RecordingSession, error) {
	if media == nil || media.State() != SessionLive {
		return nil, ErrNoActiveStream
	}

	c, err := rc.encoder.Start(ctx, media.Tracks())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordingFailed, err)
	}

	r := &RecordingSession{
		media:   media,
		capture: c,
		state:   RecordingActive,
		done:    make(chan struct{}),
	}
	go rc.collect(ctx, r)

	logger.Infof(ctx, "🎬  Recording started on camera session %d", media.ID())
	return r, nil
}

// Stop asks the encoder to flush and waits for finalize. Calling it on a
// session that is not recording returns whatever finalize already produced.
func (rc *Recorder) Stop(ctx context.Context, r *RecordingSession) (*Blob, error) {
	if r == nil {
		return nil, nil
	}
	r.stopOnce.Do(r.capture.Stop)

	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blob, r.err
}

// Discard stops the capture without switching the preview to playback. The
// media session is still released by finalize.
func (rc *Recorder) Discard(r *RecordingSession) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.discarded = true
	r.mu.Unlock()
	r.stopOnce.Do(r.capture.Stop)
}

func (rc *Recorder) collect(ctx context.Context, r *RecordingSession) {
	for chunk := range r.capture.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		cp := make([]byte, len(chunk))
		copy(cp, chunk)

		r.mu.Lock()
		r.chunks = append(r.chunks, cp)
		r.mu.Unlock()
	}
	rc.finalize(ctx, r)
}

func (rc *Recorder) finalize(ctx context.Context, r *RecordingSession) {
	surface := r.media.Surface()

	r.mu.Lock()
	switch encErr := r.capture.Err(); {
	case encErr != nil:
		r.err = fmt.Errorf("%w: %v", ErrRecordingFailed, encErr)
	case len(r.chunks) == 0:
		r.err = fmt.Errorf("%w: encoder produced no data", ErrRecordingFailed)
	default:
		r.blob = newBlob(r.chunks)
	}
	r.state = RecordingStopped
	blob, discarded, err := r.blob, r.discarded, r.err
	r.mu.Unlock()

	rc.sessions.Release(r.media)

	switch {
	case discarded:
		logger.Debugf(ctx, "recording on camera session %d discarded", r.media.ID())
	case err != nil:
		logger.Errorf(ctx, "❌  Recording failed: %v", err)
	default:
		if surface != nil {
			surface.ShowPlayback(blob)
		}
		logger.Infof(ctx, "✅  Recording finalized (%d bytes)", blob.Size())
	}
	close(r.done)
}
