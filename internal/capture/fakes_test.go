package capture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Fakes are exported so the external scenario tests can share them.

type FakeTrack struct {
	kind  TrackKind
	stops atomic.Int32
}

func (t *FakeTrack) Kind() TrackKind { return t.kind }
func (t *FakeTrack) Stop()           { t.stops.Add(1) }
func (t *FakeTrack) Stopped() bool   { return t.stops.Load() > 0 }

type FakeDevice struct {
	mu     sync.Mutex
	ErrFor map[TrackKind]error
	Gate   chan struct{}
	opened []*FakeTrack
}

func (d *FakeDevice) OpenTrack(ctx context.Context, kind TrackKind) (Track, error) {
	if d.Gate != nil {
		select {
		case <-d.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ErrFor[kind]; err != nil {
		return nil, err
	}
	tr := &FakeTrack{kind: kind}
	d.opened = append(d.opened, tr)
	return tr, nil
}

func (d *FakeDevice) Opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.opened)
}

// LiveTracks counts granted tracks that were never stopped.
func (d *FakeDevice) LiveTracks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, tr := range d.opened {
		if !tr.Stopped() {
			n++
		}
	}
	return n
}

// FakeCapture delivers its chunks, then waits for Stop unless it fails or
// ends on its own.
type FakeCapture struct {
	chunks   chan []byte
	stop     chan struct{}
	stopOnce sync.Once
	Stops    atomic.Int32
	err      error
}

func newFakeCapture(chunks [][]byte, failWith error, endsAlone bool) *FakeCapture {
	c := &FakeCapture{
		chunks: make(chan []byte, len(chunks)),
		stop:   make(chan struct{}),
	}
	for _, ch := range chunks {
		c.chunks <- ch
	}
	go func() {
		switch {
		case failWith != nil:
			c.err = failWith
		case endsAlone:
		default:
			<-c.stop
		}
		close(c.chunks)
	}()
	return c
}

func (c *FakeCapture) Chunks() <-chan []byte { return c.chunks }
func (c *FakeCapture) Err() error            { return c.err }
func (c *FakeCapture) Stop() {
	c.Stops.Add(1)
	c.stopOnce.Do(func() { close(c.stop) })
}

type FakeEncoder struct {
	Chunks   [][]byte
	StartErr error
	FailWith error
	// EndsAlone closes the stream without Stop, as a duration limit does.
	EndsAlone bool

	mu       sync.Mutex
	captures []*FakeCapture
}

func (e *FakeEncoder) Start(ctx context.Context, tracks []Track) (Capture, error) {
	if e.StartErr != nil {
		return nil, e.StartErr
	}
	if len(tracks) != 2 || tracks[0].Kind() != VideoTrack || tracks[1].Kind() != AudioTrack {
		return nil, fmt.Errorf("unexpected tracks %v", tracks)
	}
	c := newFakeCapture(e.Chunks, e.FailWith, e.EndsAlone)
	e.mu.Lock()
	e.captures = append(e.captures, c)
	e.mu.Unlock()
	return c, nil
}

func (e *FakeEncoder) Captures() []*FakeCapture {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*FakeCapture(nil), e.captures...)
}

type FakeSurface struct {
	mu     sync.Mutex
	events []string
}

func (s *FakeSurface) ShowLive(_ *MediaSession, mirrored bool) {
	s.record(fmt.Sprintf("live mirrored=%t", mirrored))
}
func (s *FakeSurface) ShowPlayback(b *Blob) { s.record(fmt.Sprintf("playback %d", b.Size())) }
func (s *FakeSurface) Clear()               { s.record("clear") }

func (s *FakeSurface) record(e string) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *FakeSurface) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *FakeSurface) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1]
}

type FakeCreator struct {
	Err error

	mu      sync.Mutex
	records []TestimonialRecord
}

func (c *FakeCreator) CreateTestimonial(_ context.Context, rec TestimonialRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return c.Err
}

func (c *FakeCreator) Records() []TestimonialRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]TestimonialRecord(nil), c.records...)
}
