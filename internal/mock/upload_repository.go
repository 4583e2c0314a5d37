package mock

import (
	"context"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// MockUploadRepo implements port.UploadRepository for tests.
type MockUploadRepo struct {
	UploadRecord *model.VideoUpload

	GetErr           error
	GetByPlaybackErr error
	CreateErr        error
	UpdateErr        error
	ListErr          error
	ListOut          map[model.UploadStatus][]uuid.UUID
	ListBefore       time.Time

	GetCalled           bool
	GetByPlaybackCalled bool
	PlaybackID          string
	ListStatuses        []model.UploadStatus
	Created             *model.VideoUpload
	Updated             *model.VideoUpload
	// Updates holds a copy of the record at every Update call.
	Updates []model.VideoUpload
}

func (m *MockUploadRepo) Create(ctx context.Context, upload *model.VideoUpload) error {
	m.Created = upload
	return m.CreateErr
}

func (m *MockUploadRepo) Update(ctx context.Context, upload *model.VideoUpload) error {
	m.Updated = upload
	m.Updates = append(m.Updates, *upload)
	return m.UpdateErr
}

func (m *MockUploadRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.VideoUpload, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.UploadRecord, nil
}

func (m *MockUploadRepo) GetByPlaybackID(ctx context.Context, playbackID string) (*model.VideoUpload, error) {
	m.GetByPlaybackCalled = true
	m.PlaybackID = playbackID
	if m.GetByPlaybackErr != nil {
		return nil, m.GetByPlaybackErr
	}
	return m.UploadRecord, nil
}

func (m *MockUploadRepo) ListByStatusBefore(ctx context.Context, status model.UploadStatus, before time.Time) ([]uuid.UUID, error) {
	m.ListStatuses = append(m.ListStatuses, status)
	m.ListBefore = before
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut[status], nil
}
