package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
)

// terminalSurface stands in for a video element: it reports what would be on
// screen.
type terminalSurface struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminalSurface(out io.Writer) *terminalSurface {
	return &terminalSurface{out: out}
}

func (s *terminalSurface) ShowLive(m *capture.MediaSession, mirrored bool) {
	s.printf("📷 live preview of camera session %d (mirrored: %v)\n", m.ID(), mirrored)
}

func (s *terminalSurface) ShowPlayback(b *capture.Blob) {
	s.printf("▶️  recording ready for review: %s, %.1f KiB\n", b.Type(), float64(b.Size())/1024)
}

func (s *terminalSurface) Clear() {
	s.printf("preview cleared\n")
}

func (s *terminalSurface) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.out, format, a...)
}
