package e2e

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/testimonialsapi"
	"github.com/fhuszti/testimonials-video-go/test/testutil"
)

type harness struct {
	pipeline    *capture.Pipeline
	testDB      *testutil.TestDB
	transitions []capture.Transition
	mu          sync.Mutex
}

func (h *harness) phases() []capture.Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]capture.Phase, 0, len(h.transitions))
	for _, tr := range h.transitions {
		out = append(out, tr.To)
	}
	return out
}

func newHarness(t *testing.T, recording []byte) *harness {
	t.Helper()
	ctx := t.Context()

	testDB, err := testutil.SetupTestDB(ctx)
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() { _ = testDB.Cleanup() })

	tb, err := testutil.SetupTestBuckets(ctx, GlobalEnv.MinIO)
	if err != nil {
		t.Fatalf("setup buckets: %v", err)
	}
	t.Cleanup(func() { _ = tb.Cleanup() })

	if err := testutil.FlushRedis(ctx, GlobalEnv.RedisAddr); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	stop := testutil.StartWorker(testDB.DB, tb, GlobalEnv.RedisAddr, testutil.GeneratePNG(t, 640, 480))
	t.Cleanup(stop)

	srv := testutil.NewAPIServer(testDB.DB, tb, GlobalEnv.RedisAddr)
	t.Cleanup(srv.Close)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	api := testimonialsapi.NewClient(srv.URL, httpClient, "", testimonialsapi.ModeAnonymous)
	sessions := capture.NewSessionManager(hostDevice{})
	p := capture.NewPipeline(capture.Stages{
		Sessions: sessions,
		Recorder: capture.NewRecorder(cannedEncoder{recording: recording, chunkSize: 1000}, sessions),
		Uploader: capture.NewUploader(api, httpClient),
		Poller:   capture.NewPoller(api, 250*time.Millisecond, 120),
		Creator:  api,
		Surface:  capture.NoopSurface(),
	})
	t.Cleanup(func() { _ = p.Close() })

	h := &harness{pipeline: p, testDB: testDB}
	p.OnTransition(func(tr capture.Transition) {
		h.mu.Lock()
		h.transitions = append(h.transitions, tr)
		h.mu.Unlock()
	})
	return h
}

func record(t *testing.T, p *capture.Pipeline) {
	t.Helper()
	ctx := t.Context()
	if err := p.EnterVideoMode(ctx); err != nil {
		t.Fatalf("EnterVideoMode: %v", err)
	}
	if err := p.StartRecording(ctx); err != nil {
		t.Fatalf("StartRecording: %v", err)
	}
	if err := p.StopRecording(ctx); err != nil {
		t.Fatalf("StopRecording: %v", err)
	}
	if got := p.Phase(); got != capture.PhaseRecorded {
		t.Fatalf("phase after stop = %s; want %s", got, capture.PhaseRecorded)
	}
}

func validDraft() capture.SubmissionDraft {
	d := capture.NewDraft("")
	d.Rating = 5
	d.Name = "Grace Hopper"
	d.Email = "grace@example.com"
	d.Position = "Rear Admiral"
	d.Message = "Recorded from the terminal"
	return d
}

func TestSubmitTestimonialE2E_HappyPath(t *testing.T) {
	recording := testutil.GenerateWebM(24 << 10)
	h := newHarness(t, recording)
	p := h.pipeline
	record(t, p)

	if got := p.Blob().Size(); got != int64(len(recording)) {
		t.Fatalf("blob size = %d; want %d", got, len(recording))
	}

	var progress []capture.Progress
	var pmu sync.Mutex
	p.OnProgress(func(pr capture.Progress) {
		pmu.Lock()
		progress = append(progress, pr)
		pmu.Unlock()
	})

	playbackID, err := p.Submit(t.Context(), validDraft())
	if err != nil {
		t.Fatalf("Submit: %v (%s)", err, capture.UserMessage(err))
	}
	if playbackID == "" {
		t.Fatal("expected a playback id")
	}
	if got := p.Phase(); got != capture.PhaseDone {
		t.Errorf("phase = %s; want %s", got, capture.PhaseDone)
	}

	want := []capture.Phase{
		capture.PhaseRecording, capture.PhaseRecorded,
		capture.PhaseUploading, capture.PhaseProcessing, capture.PhaseFinalizing, capture.PhaseDone,
	}
	got := h.phases()
	if len(got) < len(want) {
		t.Fatalf("transitions = %v; want suffix %v", got, want)
	}
	got = got[len(got)-len(want):]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transitions = %v; want suffix %v", got, want)
		}
	}

	pmu.Lock()
	if len(progress) == 0 {
		t.Error("expected upload progress reports")
	} else if last := progress[len(progress)-1]; last.Sent != int64(len(recording)) || last.Total != int64(len(recording)) {
		t.Errorf("last progress = %+v; want %d/%d", last, len(recording), len(recording))
	}
	pmu.Unlock()

	upload, err := mariadb.NewUploadRepository(h.testDB.DB).GetByPlaybackID(t.Context(), playbackID)
	if err != nil {
		t.Fatalf("GetByPlaybackID: %v", err)
	}
	if upload.Status != model.UploadStatusReady {
		t.Errorf("upload status = %q; want ready", upload.Status)
	}

	var (
		name   string
		typ    string
		rating int
	)
	if err := h.testDB.DB.QueryRowContext(t.Context(),
		"SELECT name, testimonial_type, rating FROM testimonials WHERE playback_id = ?", playbackID,
	).Scan(&name, &typ, &rating); err != nil {
		t.Fatalf("query testimonial: %v", err)
	}
	if name != "Grace Hopper" || typ != string(model.TestimonialTypeVideo) || rating != 5 {
		t.Errorf("testimonial = (%q, %q, %d)", name, typ, rating)
	}
}

func TestSubmitTestimonialE2E_RejectedRecordingFails(t *testing.T) {
	// under the backend's minimum size
	h := newHarness(t, []byte("not really a video"))
	p := h.pipeline
	record(t, p)

	_, err := p.Submit(t.Context(), validDraft())
	if !errors.Is(err, capture.ErrAssetTransport) {
		t.Fatalf("err = %v; want ErrAssetTransport", err)
	}
	if got := p.Phase(); got != capture.PhaseFailed {
		t.Errorf("phase = %s; want %s", got, capture.PhaseFailed)
	}
	if !errors.Is(p.Err(), capture.ErrAssetTransport) {
		t.Errorf("pipeline err = %v; want ErrAssetTransport", p.Err())
	}

	var n int
	if err := h.testDB.DB.QueryRow("SELECT COUNT(*) FROM testimonials").Scan(&n); err != nil {
		t.Fatalf("count testimonials: %v", err)
	}
	if n != 0 {
		t.Errorf("testimonials = %d; want 0", n)
	}
}

func TestSubmitTestimonialE2E_InvalidDraftStaysRecorded(t *testing.T) {
	h := newHarness(t, testutil.GenerateWebM(4096))
	p := h.pipeline
	record(t, p)

	draft := validDraft()
	draft.Rating = 0
	if _, err := p.Submit(t.Context(), draft); !errors.Is(err, capture.ErrInvalidDraft) {
		t.Fatalf("err = %v; want ErrInvalidDraft", err)
	}
	if got := p.Phase(); got != capture.PhaseRecorded {
		t.Errorf("phase = %s; want %s", got, capture.PhaseRecorded)
	}

	var n int
	if err := h.testDB.DB.QueryRow("SELECT COUNT(*) FROM video_uploads").Scan(&n); err != nil {
		t.Fatalf("count uploads: %v", err)
	}
	if n != 0 {
		t.Errorf("uploads = %d; want 0, an invalid draft must not reach the backend", n)
	}
}
