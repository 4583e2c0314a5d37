package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fhuszti/testimonials-video-go/internal/api_context"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type DeviceSessions interface {
	Acquire(ctx context.Context) (*MediaSession, error)
	BindToPreview(s *MediaSession, surface Surface) error
	Release(s *MediaSession)
}

type MediaRecorder interface {
	Start(ctx context.Context, media *MediaSession) (*RecordingSession, error)
	Stop(ctx context.Context, r *RecordingSession) (*Blob, error)
	Discard(r *RecordingSession)
}

type UploadCoordinator interface {
	RequestUploadTicket(ctx context.Context, campaignID string) (*UploadTicket, error)
	Transfer(ctx context.Context, t *UploadTicket, b *Blob, onProgress func(Progress)) error
}

type ReadinessPoller interface {
	Poll(ctx context.Context, uploadID string) (string, error)
}

type TestimonialCreator interface {
	CreateTestimonial(ctx context.Context, rec TestimonialRecord) error
}

var (
	_ DeviceSessions    = (*SessionManager)(nil)
	_ MediaRecorder     = (*Recorder)(nil)
	_ UploadCoordinator = (*Uploader)(nil)
	_ ReadinessPoller   = (*Poller)(nil)
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhaseRecorded
	PhaseUploading
	PhaseProcessing
	PhaseFinalizing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseRecording:
		return "recording"
	case PhaseRecorded:
		return "recorded"
	case PhaseUploading:
		return "uploading"
	case PhaseProcessing:
		return "processing"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Submitting reports whether p is one of the network-bound sub-phases.
func (p Phase) Submitting() bool {
	return p == PhaseUploading || p == PhaseProcessing || p == PhaseFinalizing
}

// Transition is delivered to the OnTransition callback. From and To may be
// equal when an operation failed without leaving its phase.
type Transition struct {
	From Phase
	To   Phase
	Err  error
}

type Stages struct {
	Sessions DeviceSessions
	Recorder MediaRecorder
	Uploader UploadCoordinator
	Poller   ReadinessPoller
	Creator  TestimonialCreator
	Surface  Surface
}

// Pipeline sequences one video submission attempt. User operations are
// serialized; Cancel, Reset, LeaveVideoMode and Close may be called at any
// time from any goroutine.
type Pipeline struct {
	st Stages
	op chan struct{}

	mu            sync.Mutex
	phase         Phase
	err           error
	gen           uint64
	closed        bool
	attemptID     uuid.UUID
	attemptCtx    context.Context
	attemptCancel context.CancelFunc

	media      *MediaSession
	recording  *RecordingSession
	blob       *Blob
	playbackID string

	onTransition func(Transition)
	onProgress   func(Progress)
}

func NewPipeline(st Stages) *Pipeline {
	if st.Surface == nil {
		st.Surface = NoopSurface()
	}
	p := &Pipeline{st: st, op: make(chan struct{}, 1)}
	p.newAttemptLocked()
	return p
}

func (p *Pipeline) OnTransition(fn func(Transition)) {
	p.mu.Lock()
	p.onTransition = fn
	p.mu.Unlock()
}

// OnProgress receives upload progress of the current attempt only.
func (p *Pipeline) OnProgress(fn func(Progress)) {
	p.mu.Lock()
	p.onProgress = fn
	p.mu.Unlock()
}

func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Err is the error of the last failed operation, cleared by the next success.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Pipeline) Blob() *Blob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blob
}

func (p *Pipeline) PlaybackID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playbackID
}

func (p *Pipeline) AttemptID() uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attemptID
}

// EnterVideoMode acquires the camera and shows the live preview. It is a
// no-op when a live session already exists.
func (p *Pipeline) EnterVideoMode(ctx context.Context) error {
	if err := p.begin(ctx); err != nil {
		return err
	}
	defer p.end()

	p.mu.Lock()
	if err := p.usableLocked(PhaseIdle); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.media != nil && p.media.State() == SessionLive {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	p.mu.Unlock()

	_, err := p.acquire(ctx, gen)
	return err
}

func (p *Pipeline) StartRecording(ctx context.Context) error {
	if err := p.begin(ctx); err != nil {
		return err
	}
	defer p.end()

	p.mu.Lock()
	if err := p.usableLocked(PhaseIdle); err != nil {
		p.mu.Unlock()
		return err
	}
	gen, media, attemptCtx := p.gen, p.media, p.attemptCtx
	p.mu.Unlock()

	if media == nil || media.State() != SessionLive {
		var err error
		if media, err = p.acquire(ctx, gen); err != nil {
			return err
		}
	}

	rec, err := p.st.Recorder.Start(attemptCtx, media)
	if err != nil {
		return p.fail(gen, err)
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		p.st.Recorder.Discard(rec)
		return ErrCanceled
	}
	p.recording = rec
	p.media = media
	t := p.setLocked(PhaseRecording, nil)
	p.mu.Unlock()

	p.emit(t)
	go p.watch(gen, rec)
	return nil
}

// watch settles a recording that ended without StopRecording: the encoder
// either died or reached its duration limit.
func (p *Pipeline) watch(gen uint64, rec *RecordingSession) {
	<-rec.Done()
	if err := rec.Err(); err != nil {
		_ = p.failOwned(gen, rec, err)
		return
	}
	_ = p.recordedOwned(gen, rec, rec.Blob())
}

// recordedOwned moves to Recorded with blob unless rec was already settled,
// so StopRecording and watch emit a single transition between them.
func (p *Pipeline) recordedOwned(gen uint64, rec *RecordingSession, blob *Blob) error {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return ErrCanceled
	}
	if p.recording != rec {
		p.mu.Unlock()
		return nil
	}
	p.blob = blob
	p.recording = nil
	p.media = nil
	t := p.setLocked(PhaseRecorded, nil)
	p.mu.Unlock()

	p.emit(t)
	return nil
}

// StopRecording waits for the recording to finalize. It does nothing unless a
// recording is running.
func (p *Pipeline) StopRecording(ctx context.Context) error {
	if err := p.begin(ctx); err != nil {
		return err
	}
	defer p.end()

	p.mu.Lock()
	if p.phase != PhaseRecording || p.recording == nil {
		p.mu.Unlock()
		return nil
	}
	gen, rec := p.gen, p.recording
	p.mu.Unlock()

	blob, err := p.st.Recorder.Stop(ctx, rec)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return err
		}
		return p.failOwned(gen, rec, err)
	}
	return p.recordedOwned(gen, rec, blob)
}

// Submit uploads the recording, waits for the playable asset and creates the
// testimonial record. It may be called again after a failure; a playback id
// obtained by an earlier attempt is reused and only the record is retried.
func (p *Pipeline) Submit(ctx context.Context, draft SubmissionDraft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}
	if draft.TestimonialType != TestimonialVideo {
		return "", fmt.Errorf("%w: testimonial type %q has no recording", ErrInvalidDraft, draft.TestimonialType)
	}

	if err := p.begin(ctx); err != nil {
		return "", err
	}
	defer p.end()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", fmt.Errorf("%w: pipeline closed", ErrInvalidPhase)
	}
	if p.phase != PhaseRecorded && (p.phase != PhaseFailed || p.blob == nil) {
		phase := p.phase
		p.mu.Unlock()
		return "", fmt.Errorf("%w: cannot submit while %s", ErrInvalidPhase, phase)
	}
	gen, blob, playbackID := p.gen, p.blob, p.playbackID
	ctx, cancel := p.scopedLocked(ctx)
	p.mu.Unlock()
	defer cancel()

	if playbackID == "" {
		if !p.moveTo(gen, PhaseUploading) {
			return "", ErrCanceled
		}
		ticket, err := p.st.Uploader.RequestUploadTicket(ctx, draft.CampaignID)
		if err != nil {
			return "", p.fail(gen, err)
		}
		if err := p.st.Uploader.Transfer(ctx, ticket, blob, p.progress(gen)); err != nil {
			return "", p.fail(gen, err)
		}

		if !p.moveTo(gen, PhaseProcessing) {
			return "", ErrCanceled
		}
		playbackID, err = p.st.Poller.Poll(ctx, ticket.UploadID)
		if err != nil {
			return "", p.fail(gen, err)
		}

		p.mu.Lock()
		if gen == p.gen {
			p.playbackID = playbackID
		}
		p.mu.Unlock()
	}

	if !p.moveTo(gen, PhaseFinalizing) {
		return "", ErrCanceled
	}
	if err := p.st.Creator.CreateTestimonial(ctx, draft.Record(playbackID)); err != nil {
		if !errors.Is(err, ErrFinalizeFailed) && !errors.Is(err, ErrCanceled) {
			err = fmt.Errorf("%w: %v", ErrFinalizeFailed, err)
		}
		return "", p.fail(gen, err)
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return "", ErrCanceled
	}
	media := p.media
	p.media = nil
	t := p.setLocked(PhaseDone, nil)
	p.mu.Unlock()

	p.st.Sessions.Release(media)
	p.emit(t)
	logger.Infof(ctx, "✅  Testimonial submitted with playback id %s", playbackID)
	return playbackID, nil
}

// RecordAgain discards the finished recording and re-opens the live preview
// on a fresh camera session.
func (p *Pipeline) RecordAgain(ctx context.Context) error {
	p.mu.Lock()
	phase := p.phase
	p.mu.Unlock()

	switch phase {
	case PhaseRecorded, PhaseFailed, PhaseDone, PhaseIdle:
	default:
		return fmt.Errorf("%w: cannot record again while %s", ErrInvalidPhase, phase)
	}

	p.Reset()
	return p.EnterVideoMode(ctx)
}

// Cancel aborts whatever is in flight and returns to Idle. It does nothing
// once the submission is done.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	done := p.phase == PhaseDone
	p.mu.Unlock()
	if done {
		return
	}
	p.abandon(false)
}

// Reset discards every artefact of the attempt and returns to Idle.
func (p *Pipeline) Reset() {
	p.abandon(false)
}

// LeaveVideoMode releases the camera when the form switches away from video.
func (p *Pipeline) LeaveVideoMode() {
	p.abandon(false)
}

// Close tears the pipeline down and waits for a running recording to stop.
// Every later operation fails with ErrInvalidPhase.
func (p *Pipeline) Close() error {
	if rec := p.abandon(true); rec != nil {
		<-rec.Done()
	}
	return nil
}

func (p *Pipeline) abandon(closing bool) *RecordingSession {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.gen++
	p.attemptCancel()
	media, rec := p.media, p.recording
	p.media, p.recording, p.blob, p.playbackID = nil, nil, nil, ""
	if closing {
		p.closed = true
	} else {
		p.newAttemptLocked()
	}
	t := p.setLocked(PhaseIdle, nil)
	p.mu.Unlock()

	p.st.Recorder.Discard(rec)
	p.st.Sessions.Release(media)
	p.st.Surface.Clear()
	p.emit(t)
	return rec
}

func (p *Pipeline) acquire(ctx context.Context, gen uint64) (*MediaSession, error) {
	p.mu.Lock()
	ctx, cancel := p.scopedLocked(ctx)
	p.mu.Unlock()
	defer cancel()

	s, err := p.st.Sessions.Acquire(ctx)
	if err != nil {
		p.mu.Lock()
		if gen != p.gen {
			p.mu.Unlock()
			return nil, ErrCanceled
		}
		p.err = err
		t := Transition{From: p.phase, To: p.phase, Err: err}
		p.mu.Unlock()

		p.emit(t)
		return nil, err
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		p.st.Sessions.Release(s)
		return nil, ErrCanceled
	}
	p.media = s
	p.err = nil
	p.mu.Unlock()

	if err := p.st.Sessions.BindToPreview(s, p.st.Surface); err != nil {
		return nil, p.fail(gen, err)
	}
	return s, nil
}

// fail moves the attempt to Failed and releases the camera. A stale
// generation means the attempt was canceled and the phase is left alone.
func (p *Pipeline) fail(gen uint64, err error) error {
	return p.failOwned(gen, nil, err)
}

// failOwned is fail for a recording error. It is a no-op when rec is no
// longer the attempt's recording, so one encoder failure is reported once.
func (p *Pipeline) failOwned(gen uint64, rec *RecordingSession, err error) error {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		if errors.Is(err, ErrCanceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	if rec != nil && p.recording != rec {
		p.mu.Unlock()
		return err
	}
	media, current := p.media, p.recording
	p.media, p.recording = nil, nil
	ctx := p.attemptCtx
	t := p.setLocked(PhaseFailed, err)
	p.mu.Unlock()

	p.st.Recorder.Discard(current)
	p.st.Sessions.Release(media)
	p.emit(t)
	logger.Warnf(ctx, "❌  Submission attempt failed in %s: %v", t.From, err)
	return err
}

func (p *Pipeline) moveTo(gen uint64, to Phase) bool {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return false
	}
	t := p.setLocked(to, nil)
	p.mu.Unlock()

	p.emit(t)
	return true
}

func (p *Pipeline) progress(gen uint64) func(Progress) {
	return func(pr Progress) {
		p.mu.Lock()
		fn := p.onProgress
		stale := gen != p.gen
		p.mu.Unlock()
		if fn != nil && !stale {
			fn(pr)
		}
	}
}

func (p *Pipeline) setLocked(to Phase, err error) Transition {
	t := Transition{From: p.phase, To: to, Err: err}
	p.phase = to
	p.err = err
	return t
}

func (p *Pipeline) emit(t Transition) {
	p.mu.Lock()
	fn := p.onTransition
	p.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}

func (p *Pipeline) usableLocked(want Phase) error {
	if p.closed {
		return fmt.Errorf("%w: pipeline closed", ErrInvalidPhase)
	}
	if p.phase != want {
		return fmt.Errorf("%w: expected %s, pipeline is %s", ErrInvalidPhase, want, p.phase)
	}
	return nil
}

// scopedLocked derives a context that also ends when the current attempt is
// abandoned, tagged with the attempt id for logging.
func (p *Pipeline) scopedLocked(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(api_context.WithAttemptID(ctx, p.attemptID))
	stop := context.AfterFunc(p.attemptCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (p *Pipeline) newAttemptLocked() {
	p.attemptID = uuid.NewUUID()
	p.attemptCtx, p.attemptCancel = context.WithCancel(
		api_context.WithAttemptID(context.Background(), p.attemptID),
	)
}

func (p *Pipeline) begin(ctx context.Context) error {
	select {
	case p.op <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) end() { <-p.op }
