package transcoder

import (
	"context"
	"image"
	"io"
)

type WebPEncoder interface {
	Encode(img image.Image, quality int, w io.Writer) error
	Decode(r io.Reader) (image.Image, string, error)
}

// CommandRunner runs bin to completion and returns its combined output.
type CommandRunner func(ctx context.Context, bin string, args ...string) ([]byte, error)
