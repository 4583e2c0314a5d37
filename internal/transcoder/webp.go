package transcoder

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"
)

// ChaiWebP is the cgo libwebp encoder.
type ChaiWebP struct{}

// compile-time check: ChaiWebP must satisfy WebPEncoder
var _ WebPEncoder = ChaiWebP{}

func (ChaiWebP) Encode(img image.Image, quality int, w io.Writer) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}

func (ChaiWebP) Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}
