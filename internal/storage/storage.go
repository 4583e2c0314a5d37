package storage

import (
	"context"
	"fmt"

	"github.com/fhuszti/testimonials-video-go/internal/port"
)

const (
	DriverMinio = "minio"
	DriverS3    = "s3"
)

type Options struct {
	Driver string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	S3 S3Config
}

// New builds the storage backend selected by opts.Driver (minio by default).
func New(ctx context.Context, opts Options) (port.Storage, error) {
	switch opts.Driver {
	case "", DriverMinio:
		return NewMinioStorage(opts.MinioEndpoint, opts.MinioAccessKey, opts.MinioSecretKey, opts.MinioUseSSL)
	case DriverS3:
		return NewS3Storage(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
