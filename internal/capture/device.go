package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
)

type TrackKind int

const (
	VideoTrack TrackKind = iota
	AudioTrack
)

func (k TrackKind) String() string {
	if k == AudioTrack {
		return "audio"
	}
	return "video"
}

// Track is one granted hardware input. Stop must be safe to call twice.
type Track interface {
	Kind() TrackKind
	Stop()
}

// MediaDevice is the platform capture API. OpenTrack blocks while the user
// is prompted and reports ErrDeviceUnavailable or ErrPermissionDenied.
type MediaDevice interface {
	OpenTrack(ctx context.Context, kind TrackKind) (Track, error)
}

type SessionState int

const (
	SessionUninitialized SessionState = iota
	SessionAcquiring
	SessionLive
	SessionStopped
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionAcquiring:
		return "acquiring"
	case SessionLive:
		return "live"
	case SessionStopped:
		return "stopped"
	case SessionFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// MediaSession is one live acquisition of camera and microphone. Only the
// SessionManager that created it mutates it.
type MediaSession struct {
	id uint64

	mu      sync.Mutex
	state   SessionState
	tracks  []Track
	surface Surface
}

func (s *MediaSession) ID() uint64 { return s.id }

func (s *MediaSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Tracks returns a copy of the granted tracks, video first.
func (s *MediaSession) Tracks() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// Surface returns the preview currently showing the session, if any.
func (s *MediaSession) Surface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface
}

// SessionManager owns the camera for one submission attempt. At most one of
// its sessions is live at any time.
type SessionManager struct {
	device MediaDevice
	seq    atomic.Uint64

	mu        sync.Mutex
	acquiring bool
	live      *MediaSession
}

func NewSessionManager(device MediaDevice) *SessionManager {
	return &SessionManager{device: device}
}

// Acquire opens a video track then an audio track. A previous live session is
// released first. Concurrent calls fail fast with ErrAlreadyAcquiring; a
// Pipeline serializes its operations and never sees it, so only callers that
// share a SessionManager directly (a preview outside the form) can.
func (m *SessionManager) Acquire(ctx context.Context) (*MediaSession, error) {
	m.mu.Lock()
	if m.acquiring {
		m.mu.Unlock()
		return nil, ErrAlreadyAcquiring
	}
	m.acquiring = true
	prev := m.live
	m.live = nil
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.acquiring = false
		m.mu.Unlock()
	}()

	if prev != nil {
		m.stop(prev, SessionStopped)
	}

	s := &MediaSession{id: m.seq.Add(1), state: SessionAcquiring}

	for _, kind := range []TrackKind{VideoTrack, AudioTrack} {
		tr, err := m.device.OpenTrack(ctx, kind)
		if err != nil {
			m.stop(s, SessionFailed)
			logger.Warnf(ctx, "❌  Failed to open %s track: %v", kind, err)
			return nil, classifyDeviceErr(ctx, err)
		}
		s.mu.Lock()
		s.tracks = append(s.tracks, tr)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.state = SessionLive
	s.mu.Unlock()

	m.mu.Lock()
	m.live = s
	m.mu.Unlock()

	logger.Debugf(ctx, "camera session %d is live", s.id)
	return s, nil
}

// BindToPreview shows the live stream mirrored on surface. It has no effect on
// what gets recorded.
func (m *SessionManager) BindToPreview(s *MediaSession, surface Surface) error {
	if s == nil || surface == nil {
		return ErrNoActiveStream
	}
	s.mu.Lock()
	if s.state != SessionLive {
		s.mu.Unlock()
		return ErrNoActiveStream
	}
	s.surface = surface
	s.mu.Unlock()

	surface.ShowLive(s, true)
	return nil
}

// Release stops every track and unbinds the preview. Releasing a stopped or
// nil session does nothing.
func (m *SessionManager) Release(s *MediaSession) {
	if s == nil {
		return
	}
	m.stop(s, SessionStopped)

	m.mu.Lock()
	if m.live == s {
		m.live = nil
	}
	m.mu.Unlock()
}

// Live reports the session currently holding the device.
func (m *SessionManager) Live() *MediaSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

func (m *SessionManager) stop(s *MediaSession, final SessionState) {
	s.mu.Lock()
	if s.state == SessionStopped || s.state == SessionFailed {
		s.mu.Unlock()
		return
	}
	tracks := s.tracks
	surface := s.surface
	s.tracks = nil
	s.surface = nil
	s.state = final
	s.mu.Unlock()

	for _, tr := range tracks {
		tr.Stop()
	}
	if surface != nil {
		surface.Clear()
	}
}

func classifyDeviceErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrDeviceUnavailable):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	default:
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
}
