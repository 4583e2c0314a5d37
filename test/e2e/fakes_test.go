package e2e

import (
	"context"
	"sync"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
)

// hostDevice grants every track; nothing here touches real hardware.
type hostDevice struct{}

type hostTrack struct{ kind capture.TrackKind }

func (t hostTrack) Kind() capture.TrackKind { return t.kind }
func (t hostTrack) Stop()                   {}

func (hostDevice) OpenTrack(_ context.Context, kind capture.TrackKind) (capture.Track, error) {
	return hostTrack{kind: kind}, nil
}

// cannedEncoder replays a recording split into fixed-size chunks.
type cannedEncoder struct {
	recording []byte
	chunkSize int
}

func (e cannedEncoder) Start(_ context.Context, _ []capture.Track) (capture.Capture, error) {
	c := &cannedCapture{chunks: make(chan []byte, len(e.recording)/e.chunkSize+1), stop: make(chan struct{})}
	for off := 0; off < len(e.recording); off += e.chunkSize {
		end := min(off+e.chunkSize, len(e.recording))
		c.chunks <- e.recording[off:end]
	}
	go func() {
		<-c.stop
		close(c.chunks)
	}()
	return c, nil
}

type cannedCapture struct {
	chunks chan []byte
	stop   chan struct{}
	once   sync.Once
}

func (c *cannedCapture) Chunks() <-chan []byte { return c.chunks }
func (c *cannedCapture) Stop()                 { c.once.Do(func() { close(c.stop) }) }
func (c *cannedCapture) Err() error            { return nil }
