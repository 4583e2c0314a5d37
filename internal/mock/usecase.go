package mock

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

// MockTicketIssuer implements port.TicketIssuer for tests.
type MockTicketIssuer struct {
	Out    port.IssueTicketOutput
	Err    error
	Called bool
	In     port.IssueTicketInput
}

func (m *MockTicketIssuer) IssueTicket(ctx context.Context, in port.IssueTicketInput) (port.IssueTicketOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockAssetResolver implements port.AssetResolver for tests.
type MockAssetResolver struct {
	Out   port.AssetOutput
	Err   error
	Calls int
	ID    uuid.UUID
}

func (m *MockAssetResolver) ResolveAsset(ctx context.Context, id uuid.UUID) (port.AssetOutput, error) {
	m.Calls++
	m.ID = id
	return m.Out, m.Err
}

// MockTestimonialCreator implements port.TestimonialCreator for tests.
type MockTestimonialCreator struct {
	Out    *model.Testimonial
	Err    error
	Called bool
	In     port.CreateTestimonialInput
}

func (m *MockTestimonialCreator) CreateTestimonial(ctx context.Context, in port.CreateTestimonialInput) (*model.Testimonial, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MockUploadTranscoder implements port.UploadTranscoder for tests.
type MockUploadTranscoder struct {
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockUploadTranscoder) TranscodeUpload(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockHTTPRenderer implements port.HTTPRenderer for tests.
type MockHTTPRenderer struct {
	Raw    []byte
	ETag   string
	Err    error
	Called bool
}

func (m *MockHTTPRenderer) RenderAsset(ctx context.Context, resolver port.AssetResolver, id uuid.UUID) ([]byte, string, error) {
	m.Called = true
	return m.Raw, m.ETag, m.Err
}
