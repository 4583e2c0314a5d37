package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
	"golang.org/x/time/rate"
)

const helpText = `commands:
  camera   turn the camera on
  record   start recording
  stop     stop recording and review
  again    discard the recording and record again
  submit   fill in your details and send the video
  cancel   abort whatever is in progress
  reset    start over
  leave    turn the camera off
  status   show the current step
  quit     exit
`

// pipeline is the part of *capture.Pipeline the console drives.
type pipeline interface {
	EnterVideoMode(ctx context.Context) error
	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	RecordAgain(ctx context.Context) error
	Submit(ctx context.Context, draft capture.SubmissionDraft) (string, error)
	Cancel()
	Reset()
	LeaveVideoMode()
	Phase() capture.Phase
	Err() error
}

type console struct {
	p          pipeline
	in         *bufio.Scanner
	out        io.Writer
	campaignID string

	mu       sync.Mutex
	progress rate.Sometimes
	submits  sync.WaitGroup
}

func newConsole(p pipeline, in io.Reader, out io.Writer, campaignID string) *console {
	return &console{
		p:          p,
		in:         bufio.NewScanner(in),
		out:        out,
		campaignID: campaignID,
		progress:   rate.Sometimes{Interval: 250 * time.Millisecond},
	}
}

func (c *console) printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// OnTransition prints every phase change with the single user message of a
// failure.
func (c *console) OnTransition(t capture.Transition) {
	if t.Err != nil {
		c.printf("[%s → %s] %s\n", t.From, t.To, capture.UserMessage(t.Err))
		return
	}
	c.printf("[%s → %s]\n", t.From, t.To)
}

func (c *console) OnProgress(pr capture.Progress) {
	if pr.Total > 0 && pr.Sent >= pr.Total {
		c.printf("uploading… 100%%\n")
		return
	}
	c.progress.Do(func() {
		c.printf("uploading… %3.0f%%\n", pr.Fraction()*100)
	})
}

// Run reads commands until quit or end of input. Submissions run in the
// background so cancel stays available while they are in flight.
func (c *console) Run(ctx context.Context) {
	c.printf("%s", helpText)
	for c.prompt("> ") {
		cmd := strings.ToLower(strings.TrimSpace(c.in.Text()))
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			break
		}
		c.dispatch(ctx, cmd)
	}
	c.submits.Wait()
}

func (c *console) dispatch(ctx context.Context, cmd string) {
	var err error
	switch cmd {
	case "camera":
		err = c.p.EnterVideoMode(ctx)
	case "record":
		err = c.p.StartRecording(ctx)
	case "stop":
		err = c.p.StopRecording(ctx)
	case "again":
		err = c.p.RecordAgain(ctx)
	case "submit":
		c.submit(ctx)
	case "cancel":
		c.p.Cancel()
	case "reset":
		c.p.Reset()
	case "leave":
		c.p.LeaveVideoMode()
	case "status":
		c.status()
	case "help":
		c.printf("%s", helpText)
	default:
		c.printf("unknown command %q, type help\n", cmd)
	}
	// other failures were already reported by OnTransition
	if errors.Is(err, capture.ErrInvalidPhase) {
		c.printf("%s is not available while %s\n", cmd, c.p.Phase())
	}
}

func (c *console) status() {
	if err := c.p.Err(); err != nil {
		c.printf("step: %s (%s)\n", c.p.Phase(), capture.UserMessage(err))
		return
	}
	c.printf("step: %s\n", c.p.Phase())
}

func (c *console) submit(ctx context.Context) {
	draft, ok := c.readDraft()
	if !ok {
		return
	}
	if err := draft.Validate(); err != nil {
		c.printf("%s\n", capture.UserMessage(err))
		return
	}

	c.submits.Add(1)
	go func() {
		defer c.submits.Done()
		playbackID, err := c.p.Submit(ctx, draft)
		if errors.Is(err, capture.ErrInvalidPhase) {
			c.printf("submit is not available while %s\n", c.p.Phase())
		}
		if err != nil {
			return
		}
		c.printf("🎉 thank you! your testimonial was saved (playback %s)\n", playbackID)
	}()
}

// readDraft asks for every form field. It returns false when input ends.
func (c *console) readDraft() (capture.SubmissionDraft, bool) {
	d := capture.NewDraft(c.campaignID)

	rating, ok := c.ask("rating (1-5): ")
	if !ok {
		return d, false
	}
	d.Rating, _ = strconv.Atoi(rating)

	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"name: ", &d.Name},
		{"email: ", &d.Email},
		{"position: ", &d.Position},
		{"message (optional): ", &d.Message},
	} {
		v, ok := c.ask(f.label)
		if !ok {
			return d, false
		}
		*f.dst = v
	}
	return d, true
}

func (c *console) ask(label string) (string, bool) {
	if !c.prompt(label) {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *console) prompt(label string) bool {
	c.printf("%s", label)
	return c.in.Scan()
}
