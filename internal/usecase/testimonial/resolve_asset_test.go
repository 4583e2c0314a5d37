package testimonial

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/mock"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
)

func strPtr(s string) *string { return &s }

func TestResolveAsset(t *testing.T) {
	tests := []struct {
		name         string
		upload       *model.VideoUpload
		getErr       error
		stat         port.FileInfo
		statErr      error
		enqueueErr   error
		want         port.AssetOutput
		wantErr      error
		wantStatus   model.UploadStatus
		wantEnqueued bool
		wantRemoved  bool
	}{
		{
			name:    "unknown upload",
			getErr:  ErrUploadNotFound,
			wantErr: ErrUploadNotFound,
		},
		{
			name:   "ready",
			upload: &model.VideoUpload{ID: fixedID, Status: model.UploadStatusReady, PlaybackID: strPtr("pb_123456")},
			want:   port.AssetOutput{Status: AssetStatusReady, PlaybackID: "pb_123456"},
		},
		{
			name:    "ready without playback id",
			upload:  &model.VideoUpload{ID: fixedID, Status: model.UploadStatusReady},
			wantErr: ErrInternal,
		},
		{
			name:   "processing",
			upload: &model.VideoUpload{ID: fixedID, Status: model.UploadStatusProcessing},
			want:   port.AssetOutput{Status: AssetStatusProcessing},
		},
		{
			name:    "failed",
			upload:  &model.VideoUpload{ID: fixedID, Status: model.UploadStatusFailed, FailureMessage: strPtr("bad codec")},
			wantErr: ErrUploadFailed,
		},
		{
			name:    "pending, nothing staged yet",
			upload:  &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			statErr: ErrObjectNotFound,
			want:    port.AssetOutput{Status: AssetStatusProcessing},
		},
		{
			name:    "pending, storage error",
			upload:  &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			statErr: ErrInternal,
			wantErr: ErrInternal,
		},
		{
			name:         "pending, valid object is admitted",
			upload:       &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			stat:         port.FileInfo{SizeBytes: 4096, ContentType: "video/webm;codecs=vp8,opus"},
			want:         port.AssetOutput{Status: AssetStatusProcessing},
			wantStatus:   model.UploadStatusProcessing,
			wantEnqueued: true,
		},
		{
			name:         "pending, enqueue error still answers processing",
			upload:       &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			stat:         port.FileInfo{SizeBytes: 4096, ContentType: "video/webm"},
			enqueueErr:   errors.New("redis down"),
			want:         port.AssetOutput{Status: AssetStatusProcessing},
			wantStatus:   model.UploadStatusProcessing,
			wantEnqueued: true,
		},
		{
			name:        "pending, too small",
			upload:      &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			stat:        port.FileInfo{SizeBytes: 10, ContentType: "video/webm"},
			wantErr:     ErrUploadFailed,
			wantStatus:  model.UploadStatusFailed,
			wantRemoved: true,
		},
		{
			name:        "pending, too large",
			upload:      &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			stat:        port.FileInfo{SizeBytes: MaxFileSize + 1, ContentType: "video/webm"},
			wantErr:     ErrUploadFailed,
			wantStatus:  model.UploadStatusFailed,
			wantRemoved: true,
		},
		{
			name:        "pending, wrong content type",
			upload:      &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending},
			stat:        port.FileInfo{SizeBytes: 4096, ContentType: "video/mp4"},
			wantErr:     ErrUploadFailed,
			wantStatus:  model.UploadStatusFailed,
			wantRemoved: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.MockUploadRepo{UploadRecord: tc.upload, GetErr: tc.getErr}
			strg := &mock.Storage{StatInfoOut: tc.stat, StatErr: tc.statErr}
			tasks := &mock.MockDispatcher{TranscodeErr: tc.enqueueErr}
			svc := NewAssetResolver(repo, strg, tasks, "staging")

			got, err := svc.ResolveAsset(context.Background(), fixedID)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v; want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v; want %+v", got, tc.want)
			}

			if tc.wantStatus != "" {
				if repo.Updated == nil || repo.Updated.Status != tc.wantStatus {
					t.Errorf("updated = %+v; want status %q", repo.Updated, tc.wantStatus)
				}
			} else if repo.Updated != nil {
				t.Errorf("unexpected update: %+v", repo.Updated)
			}
			if tasks.TranscodeCalled != tc.wantEnqueued {
				t.Errorf("enqueued = %v; want %v", tasks.TranscodeCalled, tc.wantEnqueued)
			}
			if strg.RemoveCalled != tc.wantRemoved {
				t.Errorf("removed = %v; want %v", strg.RemoveCalled, tc.wantRemoved)
			}
		})
	}
}

func TestResolveAsset_AdmissionRecordsObjectInfo(t *testing.T) {
	upload := &model.VideoUpload{ID: fixedID, ObjectKey: "k.webm", Status: model.UploadStatusPending}
	repo := &mock.MockUploadRepo{UploadRecord: upload}
	strg := &mock.Storage{StatInfoOut: port.FileInfo{SizeBytes: 2048, ContentType: "video/webm"}}

	if _, err := NewAssetResolver(repo, strg, &mock.MockDispatcher{}, "staging").ResolveAsset(context.Background(), fixedID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upload.SizeBytes == nil || *upload.SizeBytes != 2048 {
		t.Errorf("SizeBytes = %v; want 2048", upload.SizeBytes)
	}
	if upload.ContentType == nil || *upload.ContentType != "video/webm" {
		t.Errorf("ContentType = %v; want video/webm", upload.ContentType)
	}
}
