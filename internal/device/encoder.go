package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
)

const (
	chunkSize  = 64 << 10
	stopGrace  = 5 * time.Second
	stderrKeep = 4 << 10
)

// Process is a started encoder process.
type Process interface {
	Stdout() io.Reader
	Stdin() io.WriteCloser
	Wait() error
	Kill() error
}

// Runner starts bin with args.
type Runner func(ctx context.Context, bin string, args ...string) (Process, error)

// FFmpegEncoder records granted tracks into a VP8/Opus WebM stream read from
// ffmpeg's stdout.
type FFmpegEncoder struct {
	bin         string
	maxDuration time.Duration
	stopGrace   time.Duration
	run         Runner
}

var _ capture.Encoder = (*FFmpegEncoder)(nil)

func NewFFmpegEncoder(bin string, maxDuration time.Duration, run Runner) *FFmpegEncoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	if run == nil {
		run = ExecRunner
	}
	return &FFmpegEncoder{bin: bin, maxDuration: maxDuration, stopGrace: stopGrace, run: run}
}

func (e *FFmpegEncoder) Start(ctx context.Context, tracks []capture.Track) (capture.Capture, error) {
	args, err := e.buildArgs(tracks)
	if err != nil {
		return nil, err
	}

	proc, err := e.run(ctx, e.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg start failed: %w", err)
	}

	c := &ffmpegCapture{
		proc:   proc,
		chunks: make(chan []byte, 16),
		grace:  e.stopGrace,
	}
	go c.read(ctx)
	return c, nil
}

func (e *FFmpegEncoder) buildArgs(tracks []capture.Track) ([]string, error) {
	var video, audio *track
	for _, t := range tracks {
		tr, ok := t.(*track)
		if !ok {
			return nil, fmt.Errorf("track %T was not granted by FFmpegDevice", t)
		}
		if tr.stopped.Load() {
			return nil, fmt.Errorf("%s track already stopped", tr.kind)
		}
		if tr.kind == capture.VideoTrack {
			video = tr
		} else {
			audio = tr
		}
	}
	if video == nil || audio == nil {
		return nil, errors.New("both a video and an audio track are required")
	}

	args := []string{"-hide_banner", "-loglevel", "error"}
	args = append(args, video.input.args()...)
	args = append(args, audio.input.args()...)
	if e.maxDuration > 0 {
		args = append(args, "-t", strconv.FormatFloat(e.maxDuration.Seconds(), 'f', -1, 64))
	}
	args = append(args,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "libvpx", "-deadline", "realtime", "-cpu-used", "8", "-b:v", "1M",
		"-c:a", "libopus", "-b:a", "96k",
		"-f", "webm", "-cluster_time_limit", "1000",
		"pipe:1",
	)
	return args, nil
}

type ffmpegCapture struct {
	proc   Process
	chunks chan []byte
	grace  time.Duration

	stopOnce sync.Once
	mu       sync.Mutex
	kill     *time.Timer
	killed   bool
	err      error
}

func (c *ffmpegCapture) Chunks() <-chan []byte { return c.chunks }

func (c *ffmpegCapture) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Stop asks ffmpeg to finish the file and kills it if it does not exit in
// time. A killed encoder never yields a usable recording.
func (c *ffmpegCapture) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.kill = time.AfterFunc(c.grace, func() {
			c.mu.Lock()
			c.killed = true
			c.mu.Unlock()
			_ = c.proc.Kill()
		})
		c.mu.Unlock()

		in := c.proc.Stdin()
		_, _ = io.WriteString(in, "q")
		_ = in.Close()
	})
}

func (c *ffmpegCapture) read(ctx context.Context) {
	defer close(c.chunks)

	var readErr error
	out := c.proc.Stdout()
	for {
		buf := make([]byte, chunkSize)
		n, err := io.ReadAtLeast(out, buf, 1)
		if n > 0 {
			c.chunks <- buf[:n]
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				readErr = err
			}
			break
		}
	}

	waitErr := c.proc.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kill != nil {
		c.kill.Stop()
	}
	switch {
	case readErr != nil:
		c.err = readErr
	case c.killed:
		c.err = fmt.Errorf("ffmpeg did not finish within %s of stop and was killed", c.grace)
	case waitErr != nil:
		c.err = waitErr
	}
	if c.err != nil {
		logger.Errorf(ctx, "❌  ffmpeg capture ended with error: %v", c.err)
	}
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stdin  io.WriteCloser
	stderr *cappedBuffer
}

func (p *execProcess) Stdout() io.Reader     { return p.stdout }
func (p *execProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *execProcess) Kill() error           { return p.cmd.Process.Kill() }

func (p *execProcess) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		if msg := bytes.TrimSpace(p.stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// ExecRunner starts a real process.
func ExecRunner(ctx context.Context, bin string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, bin, args...) // #nosec G204
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stderr := &cappedBuffer{max: stderrKeep}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stdout: stdout, stdin: stdin, stderr: stderr}, nil
}

// cappedBuffer keeps the last max bytes written to it.
type cappedBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf)
}
