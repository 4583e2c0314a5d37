package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOEnv describes how tests reach object storage.
type MinIOEnv struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type TestBuckets struct {
	Storage  port.Storage
	Staging  string
	Playback string
	Cleanup  func() error
}

// SetupTestBuckets creates a staging and a playback bucket unique to the
// calling test and returns the storage driver the services use against them.
func SetupTestBuckets(ctx context.Context, env MinIOEnv) (*TestBuckets, error) {
	strg, err := storage.New(ctx, storage.Options{
		Driver:         storage.DriverMinio,
		MinioEndpoint:  env.Endpoint,
		MinioAccessKey: env.AccessKey,
		MinioSecretKey: env.SecretKey,
		MinioUseSSL:    env.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create storage: %w", err)
	}
	// raw client for teardown, the port has no bucket removal
	client, err := minio.New(env.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(env.AccessKey, env.SecretKey, ""),
		Secure: env.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create minio client: %w", err)
	}

	suffix := time.Now().UnixNano()
	tb := &TestBuckets{
		Storage:  strg,
		Staging:  fmt.Sprintf("staging-%d", suffix),
		Playback: fmt.Sprintf("playback-%d", suffix),
	}
	buckets := []string{tb.Staging, tb.Playback}
	for _, b := range buckets {
		if err := strg.InitBucket(ctx, b); err != nil {
			return nil, fmt.Errorf("could not create bucket %q: %w", b, err)
		}
	}

	tb.Cleanup = func() error {
		ctx := context.Background()
		for _, b := range buckets {
			for obj := range client.ListObjects(ctx, b, minio.ListObjectsOptions{Recursive: true}) {
				if obj.Err != nil {
					continue
				}
				_ = client.RemoveObject(ctx, b, obj.Key, minio.RemoveObjectOptions{})
			}
			if err := client.RemoveBucket(ctx, b); err != nil {
				return fmt.Errorf("could not remove bucket %q: %w", b, err)
			}
		}
		return nil
	}
	return tb, nil
}
