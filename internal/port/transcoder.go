package port

import (
	"context"
	"io"
)

// Rendition is the playback output of one transcode. Files live on local disk
// until Close is called.
type Rendition interface {
	Video() (io.ReadCloser, int64, error)
	Poster() []byte
	Width() int
	Height() int
	Close() error
}

// Transcoder turns a recorded webm into a streamable rendition plus a poster.
type Transcoder interface {
	Transcode(ctx context.Context, src io.Reader) (Rendition, error)
}
