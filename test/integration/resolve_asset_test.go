package integration

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	tvuuid "github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/fhuszti/testimonials-video-go/test/testutil"
	"github.com/hibiken/asynq"
)

func TestResolveAssetIntegration(t *testing.T) {
	tests := []struct {
		name        string
		content     []byte
		contentType string
		upload      bool
		wantStatus  model.UploadStatus
		wantErr     error
		wantQueued  int
		wantStaged  bool
	}{
		{
			name:       "nothing uploaded yet",
			upload:     false,
			wantStatus: model.UploadStatusPending,
		},
		{
			name:        "valid recording is queued",
			content:     testutil.GenerateWebM(8192),
			contentType: "video/webm;codecs=vp8,opus",
			upload:      true,
			wantStatus:  model.UploadStatusProcessing,
			wantQueued:  1,
			wantStaged:  true,
		},
		{
			name:        "too small",
			content:     []byte("tiny"),
			contentType: "video/webm",
			upload:      true,
			wantStatus:  model.UploadStatusFailed,
			wantErr:     testimonial.ErrUploadFailed,
		},
		{
			name:        "wrong content type",
			content:     testutil.GenerateWebM(8192),
			contentType: "application/pdf",
			upload:      true,
			wantStatus:  model.UploadStatusFailed,
			wantErr:     testimonial.ErrUploadFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testDB, tb := setup(t)
			ctx := t.Context()
			repo := mariadb.NewUploadRepository(testDB.DB)
			dispatcher := task.NewDispatcher(GlobalEnv.RedisAddr, "")
			svc := testimonial.NewAssetResolver(repo, tb.Storage, dispatcher, tb.Staging)

			id := tvuuid.NewUUID()
			key := testimonial.StagingObjectKey(id)
			if err := repo.Create(ctx, &model.VideoUpload{ID: id, ObjectKey: key, Status: model.UploadStatusPending}); err != nil {
				t.Fatalf("insert upload: %v", err)
			}
			if tc.upload {
				if err := tb.Storage.SaveFile(ctx, tb.Staging, key, bytes.NewReader(tc.content), int64(len(tc.content)), map[string]string{
					"Content-Type": tc.contentType,
				}); err != nil {
					t.Fatalf("upload to staging: %v", err)
				}
			}

			out, err := svc.ResolveAsset(ctx, id)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v; want %v", err, tc.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("ResolveAsset: %v", err)
				}
				if out.Status != testimonial.AssetStatusProcessing {
					t.Errorf("status = %q; want processing", out.Status)
				}
			}

			saved, err := repo.GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if saved.Status != tc.wantStatus {
				t.Errorf("db status = %q; want %q", saved.Status, tc.wantStatus)
			}

			exists, err := tb.Storage.FileExists(ctx, tb.Staging, key)
			if err != nil {
				t.Fatalf("FileExists: %v", err)
			}
			if exists != tc.wantStaged {
				t.Errorf("staged file exists = %v; want %v", exists, tc.wantStaged)
			}

			inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: GlobalEnv.RedisAddr})
			defer func() { _ = inspector.Close() }()
			pending, err := inspector.ListPendingTasks("default")
			if errors.Is(err, asynq.ErrQueueNotFound) {
				pending, err = nil, nil
			}
			if err != nil {
				t.Fatalf("ListPendingTasks: %v", err)
			}
			if len(pending) != tc.wantQueued {
				t.Fatalf("queued tasks = %d; want %d", len(pending), tc.wantQueued)
			}
			if tc.wantQueued > 0 {
				p, err := task.ParseTranscodeUploadPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
				if err != nil {
					t.Fatalf("parse payload: %v", err)
				}
				if p.UploadID != id.String() {
					t.Errorf("queued upload = %q; want %q", p.UploadID, id)
				}
			}
		})
	}
}
