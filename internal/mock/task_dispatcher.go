package mock

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	TranscodeCalled bool
	TranscodeIDs    []uuid.UUID
	TranscodeErr    error
}

func (m *MockDispatcher) EnqueueTranscodeUpload(ctx context.Context, id uuid.UUID) error {
	m.TranscodeCalled = true
	m.TranscodeIDs = append(m.TranscodeIDs, id)
	return m.TranscodeErr
}
