package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"golang.org/x/image/draw"
)

const (
	PosterWidth   = 640
	PosterQuality = 80
)

type Transcoder struct {
	bin     string
	run     CommandRunner
	webpEnc WebPEncoder
}

// compile-time check: *Transcoder must satisfy port.Transcoder
var _ port.Transcoder = (*Transcoder)(nil)

func NewTranscoder(bin string, run CommandRunner, webpEnc WebPEncoder) *Transcoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	if run == nil {
		run = ExecRunner
	}
	return &Transcoder{bin: bin, run: run, webpEnc: webpEnc}
}

// Transcode writes src to a scratch directory, produces a fragmented MP4 that
// can start playing before it is fully downloaded, and grabs the first frame
// as a WebP poster no wider than PosterWidth.
func (t *Transcoder) Transcode(ctx context.Context, src io.Reader) (port.Rendition, error) {
	dir, err := os.MkdirTemp("", "transcode_*")
	if err != nil {
		return nil, fmt.Errorf("transcoder: could not create scratch dir: %w", err)
	}
	r := &fileRendition{dir: dir}
	ok := false
	defer func() {
		if !ok {
			_ = r.Close()
		}
	}()

	in := filepath.Join(dir, "in.webm")
	if err := writeFile(in, src); err != nil {
		return nil, fmt.Errorf("transcoder: failed to write source: %w", err)
	}

	r.videoPath = filepath.Join(dir, "video.mp4")
	if out, err := t.run(ctx, t.bin,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", in,
		"-c:v", "libx264", "-preset", "veryfast", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "128k",
		"-movflags", "+frag_keyframe+empty_moov+default_base_moof",
		r.videoPath,
	); err != nil {
		return nil, fmt.Errorf("transcoder: ffmpeg video pass failed: %w: %s", err, bytes.TrimSpace(out))
	}

	posterPath := filepath.Join(dir, "poster.png")
	if out, err := t.run(ctx, t.bin,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", in,
		"-frames:v", "1",
		posterPath,
	); err != nil {
		return nil, fmt.Errorf("transcoder: ffmpeg poster pass failed: %w: %s", err, bytes.TrimSpace(out))
	}

	if err := t.buildPoster(posterPath, r); err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "transcoded recording to %dx%d mp4 in %s", r.width, r.height, dir)
	ok = true
	return r, nil
}

func (t *Transcoder) buildPoster(path string, r *fileRendition) error {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("transcoder: poster frame missing: %w", err)
	}
	defer func() { _ = f.Close() }()

	frame, _, err := t.webpEnc.Decode(f)
	if err != nil {
		return fmt.Errorf("transcoder: failed to decode poster frame: %w", err)
	}
	b := frame.Bounds()
	r.width, r.height = b.Dx(), b.Dy()

	buf := &bytes.Buffer{}
	if err := t.webpEnc.Encode(scaleToWidth(frame, PosterWidth), PosterQuality, buf); err != nil {
		return fmt.Errorf("transcoder: failed to encode WebP poster: %w", err)
	}
	r.poster = buf.Bytes()
	return nil
}

// scaleToWidth keeps the aspect ratio and never upscales.
func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() <= width || b.Dx() == 0 {
		return img
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func writeFile(path string, src io.Reader) error {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ExecRunner runs a real process.
func ExecRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, bin, args...).CombinedOutput() // #nosec G204
}

type fileRendition struct {
	dir       string
	videoPath string
	poster    []byte
	width     int
	height    int
}

func (r *fileRendition) Video() (io.ReadCloser, int64, error) {
	f, err := os.Open(r.videoPath) // #nosec G304
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

func (r *fileRendition) Poster() []byte { return r.poster }
func (r *fileRendition) Width() int     { return r.width }
func (r *fileRendition) Height() int    { return r.height }

func (r *fileRendition) Close() error {
	return os.RemoveAll(r.dir)
}
