package mock

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/port"
)

// Storage implements port.Storage for tests. SaveFile is safe for concurrent use.
type Storage struct {
	mu sync.Mutex

	// stored values
	StatInfoOut port.FileInfo
	GetOut      []byte
	ExistsOut   bool

	// captured inputs
	Bucket     string
	ObjectKey  string
	TTL        time.Duration
	Removed    []string
	Saved      map[string][]byte
	SavedTypes map[string]string

	// errors
	InitBucketErr         error
	GenerateUploadLinkErr error
	StatErr               error
	RemoveErr             error
	GetErr                error
	SaveErr               error
	FileExistsErr         error

	// call flags
	InitBucketCalled         bool
	GenerateUploadLinkCalled bool
	StatCalled               bool
	RemoveCalled             bool
	GetCalled                bool
	SaveCalled               bool
	FileExistsCalled         bool
}

func (m *Storage) InitBucket(ctx context.Context, bucket string) error {
	m.InitBucketCalled = true
	m.Bucket = bucket
	return m.InitBucketErr
}

func (m *Storage) GeneratePresignedUploadURL(ctx context.Context, bucket, fileKey string, expiry time.Duration) (string, error) {
	m.GenerateUploadLinkCalled = true
	m.Bucket = bucket
	m.ObjectKey = fileKey
	m.TTL = expiry
	if m.GenerateUploadLinkErr != nil {
		return "", m.GenerateUploadLinkErr
	}
	return "https://example.com/upload/" + fileKey, nil
}

func (m *Storage) FileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	m.FileExistsCalled = true
	return m.ExistsOut, m.FileExistsErr
}

func (m *Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	m.StatCalled = true
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatInfoOut, nil
}

func (m *Storage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	m.RemoveCalled = true
	m.Removed = append(m.Removed, bucket+"/"+fileKey)
	return m.RemoveErr
}

func (m *Storage) GetFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return io.NopCloser(bytes.NewReader(m.GetOut)), nil
}

func (m *Storage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalled = true
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.Saved == nil {
		m.Saved = map[string][]byte{}
		m.SavedTypes = map[string]string{}
	}
	m.Saved[bucket+"/"+fileKey] = data
	m.SavedTypes[bucket+"/"+fileKey] = opts["Content-Type"]
	return nil
}
