package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
)

// Env is the backing infrastructure shared by every test of a package.
type Env struct {
	MinIO     MinIOEnv
	RedisAddr string
}

// StartEnv reuses services announced through TEST_DB_DSN, TEST_MINIO_* and
// TEST_REDIS_ADDR (CI) and starts containers for the others. The returned
// cleanup purges whatever was started here.
func StartEnv() (*Env, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	env := &Env{}

	if os.Getenv("TEST_DB_DSN") == "" {
		mdb, err := StartMariaDBContainer()
		if err != nil {
			return nil, cleanup, fmt.Errorf("mariadb: %w", err)
		}
		cleanups = append(cleanups, mdb.Cleanup)
		if err := os.Setenv("TEST_DB_DSN", mdb.DSN); err != nil {
			return nil, cleanup, fmt.Errorf("set TEST_DB_DSN: %w", err)
		}
	}

	if endpoint := os.Getenv("TEST_MINIO_ENDPOINT"); endpoint != "" {
		env.MinIO = MinIOEnv{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("TEST_MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("TEST_MINIO_SECRET_KEY"),
			UseSSL:    os.Getenv("TEST_MINIO_USE_SSL") == "true",
		}
	} else {
		mi, err := StartMinIOContainer()
		if err != nil {
			return nil, cleanup, fmt.Errorf("minio: %w", err)
		}
		cleanups = append(cleanups, mi.Cleanup)
		env.MinIO = MinIOEnv{Endpoint: mi.Endpoint, AccessKey: mi.AccessKey, SecretKey: mi.SecretKey}
	}

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		env.RedisAddr = addr
	} else {
		addr, stop, err := startRedis()
		if err != nil {
			return nil, cleanup, fmt.Errorf("redis: %w", err)
		}
		cleanups = append(cleanups, stop)
		env.RedisAddr = addr
	}

	return env, cleanup, nil
}

// startRedis runs the single Redis that backs both the asset cache and the
// transcode queue.
func startRedis() (string, func(), error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = time.Minute

	resource, err := pool.Run("redis", "7-alpine", nil)
	if err != nil {
		return "", nil, fmt.Errorf("could not start redis container: %w", err)
	}
	stop := func() {
		if err := pool.Purge(resource); err != nil {
			logger.Warnf(context.Background(), "could not purge redis container: %s", err)
		}
	}

	addr := resource.GetHostPort("6379/tcp")
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return FlushRedis(ctx, addr)
	}); err != nil {
		stop()
		return "", nil, fmt.Errorf("redis did not become ready: %w", err)
	}
	return addr, stop, nil
}

// FlushRedis drops cached assets and queued tasks left by a previous test.
func FlushRedis(ctx context.Context, addr string) error {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer func() { _ = rdb.Close() }()
	return rdb.FlushAll(ctx).Err()
}
