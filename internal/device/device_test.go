package device

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		in      string
		want    Input
		wantErr bool
	}{
		{in: "v4l2:/dev/video0", want: Input{Format: "v4l2", Source: "/dev/video0"}},
		{in: "lavfi:testsrc=size=640x480:rate=30", want: Input{Format: "lavfi", Source: "testsrc=size=640x480:rate=30"}},
		{in: " alsa:default ", want: Input{Format: "alsa", Source: "default"}},
		{in: "/dev/video0", wantErr: true},
		{in: "v4l2:", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseInput(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseInput(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseInput(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOpenTrack(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "video0")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		video   Input
		audio   Input
		kind    capture.TrackKind
		stat    func(string) (fs.FileInfo, error)
		wantErr error
	}{
		{name: "existing device node", video: Input{"v4l2", existing}, kind: capture.VideoTrack},
		{name: "virtual audio source", audio: Input{"alsa", "default"}, kind: capture.AudioTrack},
		{name: "missing camera", video: Input{"v4l2", filepath.Join(dir, "nope")}, kind: capture.VideoTrack, wantErr: capture.ErrDeviceUnavailable},
		{name: "no audio configured", kind: capture.AudioTrack, wantErr: capture.ErrDeviceUnavailable},
		{
			name:    "permission denied",
			video:   Input{"v4l2", "/dev/video9"},
			kind:    capture.VideoTrack,
			stat:    func(string) (fs.FileInfo, error) { return nil, fs.ErrPermission },
			wantErr: capture.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFFmpegDevice(tt.video, tt.audio)
			if tt.stat != nil {
				d.stat = tt.stat
			}
			tr, err := d.OpenTrack(context.Background(), tt.kind)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && tr.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", tr.Kind(), tt.kind)
			}
		})
	}
}
