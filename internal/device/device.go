package device

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
)

// Input names one ffmpeg input, e.g. "v4l2:/dev/video0", "alsa:default" or
// "lavfi:testsrc=size=640x480:rate=30".
type Input struct {
	Format string
	Source string
}

func ParseInput(s string) (Input, error) {
	format, source, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || format == "" || source == "" {
		return Input{}, fmt.Errorf("invalid capture input %q, expected format:source", s)
	}
	return Input{Format: format, Source: source}, nil
}

func (in Input) String() string { return in.Format + ":" + in.Source }

// args are the ffmpeg flags opening this input.
func (in Input) args() []string {
	switch in.Format {
	case "file":
		return []string{"-re", "-i", in.Source}
	default:
		return []string{"-f", in.Format, "-i", in.Source}
	}
}

// deviceNode reports whether the input is backed by a device file that can
// be checked before ffmpeg is started.
func (in Input) deviceNode() bool {
	return in.Format == "v4l2" || in.Format == "file" || strings.HasPrefix(in.Source, "/dev/")
}

type track struct {
	kind    capture.TrackKind
	input   Input
	stopped atomic.Bool
}

func (t *track) Kind() capture.TrackKind { return t.kind }
func (t *track) Stop()                   { t.stopped.Store(true) }

// FFmpegDevice grants tracks for host capture inputs. A track is only a
// reservation; the encoder opens the inputs when recording starts.
type FFmpegDevice struct {
	video Input
	audio Input
	stat  func(string) (fs.FileInfo, error)
	open  func(string) (*os.File, error)
}

var _ capture.MediaDevice = (*FFmpegDevice)(nil)

func NewFFmpegDevice(video, audio Input) *FFmpegDevice {
	return &FFmpegDevice{video: video, audio: audio, stat: os.Stat, open: os.Open}
}

func (d *FFmpegDevice) OpenTrack(ctx context.Context, kind capture.TrackKind) (capture.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in := d.video
	if kind == capture.AudioTrack {
		in = d.audio
	}
	if in.Source == "" {
		return nil, fmt.Errorf("%w: no %s input configured", capture.ErrDeviceUnavailable, kind)
	}

	if in.deviceNode() {
		if _, err := d.stat(in.Source); err != nil {
			return nil, mapFSErr(kind, in, err)
		}
		f, err := d.open(in.Source)
		if err != nil {
			return nil, mapFSErr(kind, in, err)
		}
		_ = f.Close()
	}

	return &track{kind: kind, input: in}, nil
}

func mapFSErr(kind capture.TrackKind, in Input, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s input %s not found", capture.ErrDeviceUnavailable, kind, in)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s input %s", capture.ErrPermissionDenied, kind, in)
	default:
		return fmt.Errorf("%w: %s input %s: %v", capture.ErrDeviceUnavailable, kind, in, err)
	}
}
