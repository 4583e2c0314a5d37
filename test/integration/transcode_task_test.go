package integration

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/transcoder"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	tvuuid "github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/fhuszti/testimonials-video-go/test/testutil"
)

func TestTranscodeTaskIntegration_UploadBecomesReady(t *testing.T) {
	testDB, tb := setup(t)
	ctx := t.Context()

	stop := testutil.StartWorker(testDB.DB, tb, GlobalEnv.RedisAddr, testutil.GeneratePNG(t, 1280, 720))
	defer stop()

	repo := mariadb.NewUploadRepository(testDB.DB)
	dispatcher := task.NewDispatcher(GlobalEnv.RedisAddr, "")
	resolver := testimonial.NewAssetResolver(repo, tb.Storage, dispatcher, tb.Staging)

	id := tvuuid.NewUUID()
	key := testimonial.StagingObjectKey(id)
	if err := repo.Create(ctx, &model.VideoUpload{ID: id, ObjectKey: key, Status: model.UploadStatusPending}); err != nil {
		t.Fatalf("insert upload: %v", err)
	}
	content := testutil.GenerateWebM(16 << 10)
	if err := tb.Storage.SaveFile(ctx, tb.Staging, key, bytes.NewReader(content), int64(len(content)), map[string]string{
		"Content-Type": "video/webm",
	}); err != nil {
		t.Fatalf("upload to staging: %v", err)
	}

	if _, err := resolver.ResolveAsset(ctx, id); err != nil {
		t.Fatalf("ResolveAsset: %v", err)
	}

	var ready *model.VideoUpload
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if u.Status == model.UploadStatusFailed {
			t.Fatalf("upload failed: %v", *u.FailureMessage)
		}
		if u.Status == model.UploadStatusReady {
			ready = u
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	if ready == nil {
		t.Fatal("upload did not become ready in time")
	}

	if ready.PlaybackID == nil || *ready.PlaybackID == "" {
		t.Fatal("expected a playback id")
	}
	playbackID := *ready.PlaybackID
	meta := ready.Metadata
	if meta.Width != 1280 || meta.Height != 720 {
		t.Errorf("dimensions = %dx%d; want 1280x720", meta.Width, meta.Height)
	}
	if meta.VideoKey != testimonial.VideoObjectKey(playbackID) {
		t.Errorf("video key = %q", meta.VideoKey)
	}
	if meta.VideoSizeBytes != int64(len(testutil.FakeMP4)) {
		t.Errorf("video size = %d; want %d", meta.VideoSizeBytes, len(testutil.FakeMP4))
	}

	rc, err := tb.Storage.GetFile(ctx, tb.Playback, meta.VideoKey)
	if err != nil {
		t.Fatalf("GetFile video: %v", err)
	}
	video, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read video: %v", err)
	}
	if !bytes.Equal(video, testutil.FakeMP4) {
		t.Error("stored video differs from the transcoder output")
	}

	prc, err := tb.Storage.GetFile(ctx, tb.Playback, meta.PosterKey)
	if err != nil {
		t.Fatalf("GetFile poster: %v", err)
	}
	poster, _, err := transcoder.ChaiWebP{}.Decode(prc)
	_ = prc.Close()
	if err != nil {
		t.Fatalf("decode poster: %v", err)
	}
	if w := poster.Bounds().Dx(); w != transcoder.PosterWidth {
		t.Errorf("poster width = %d; want %d", w, transcoder.PosterWidth)
	}

	still, err := tb.Storage.FileExists(ctx, tb.Staging, key)
	if err != nil {
		t.Fatalf("FileExists: %v", err)
	}
	if still {
		t.Error("expected staged recording removed")
	}

	out, err := resolver.ResolveAsset(ctx, id)
	if err != nil {
		t.Fatalf("ResolveAsset after ready: %v", err)
	}
	if out.Status != testimonial.AssetStatusReady || out.PlaybackID != playbackID {
		t.Errorf("asset = %+v; want ready %s", out, playbackID)
	}
}
