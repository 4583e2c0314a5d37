package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
)

// ebmlMagic opens every Matroska/WebM stream.
var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// GenerateWebM returns a fake recording large enough to pass the staging
// size check. Its content is never decoded because ffmpeg is faked.
func GenerateWebM(size int) []byte {
	if size < testimonial.MinFileSize {
		size = testimonial.MinFileSize
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	buf.Write(ebmlMagic)
	buf.Write(bytes.Repeat([]byte{0x42}, size-len(ebmlMagic)))
	return buf.Bytes()
}

// GeneratePNG generates a solid RGBA image and encodes it to PNG
func GeneratePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 144, B: 255, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

// FakeMP4 is what FakeFFmpeg writes for every video rendition.
var FakeMP4 = append([]byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, bytes.Repeat([]byte{0x01}, 2048)...)

// FakeFFmpeg stands in for the ffmpeg binary: it writes FakeMP4 or frame to
// the output path, which is always the last argument.
func FakeFFmpeg(frame []byte) func(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		out := args[len(args)-1]
		switch {
		case strings.HasSuffix(out, ".mp4"):
			return nil, os.WriteFile(out, FakeMP4, 0o600)
		case strings.HasSuffix(out, ".png"):
			return nil, os.WriteFile(out, frame, 0o600)
		}
		return nil, nil
	}
}
