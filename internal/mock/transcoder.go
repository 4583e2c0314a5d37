package mock

import (
	"bytes"
	"context"
	"io"

	"github.com/fhuszti/testimonials-video-go/internal/port"
)

// Rendition is an in-memory port.Rendition.
type Rendition struct {
	VideoData  []byte
	PosterData []byte
	W, H       int
	VideoErr   error
	Closed     bool
}

func (r *Rendition) Video() (io.ReadCloser, int64, error) {
	if r.VideoErr != nil {
		return nil, 0, r.VideoErr
	}
	return io.NopCloser(bytes.NewReader(r.VideoData)), int64(len(r.VideoData)), nil
}
func (r *Rendition) Poster() []byte { return r.PosterData }
func (r *Rendition) Width() int     { return r.W }
func (r *Rendition) Height() int    { return r.H }
func (r *Rendition) Close() error {
	r.Closed = true
	return nil
}

// Transcoder implements port.Transcoder for tests.
type Transcoder struct {
	Out    *Rendition
	Err    error
	Called bool
	Input  []byte
}

func (t *Transcoder) Transcode(ctx context.Context, src io.Reader) (port.Rendition, error) {
	t.Called = true
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	t.Input = data
	if t.Err != nil {
		return nil, t.Err
	}
	return t.Out, nil
}
