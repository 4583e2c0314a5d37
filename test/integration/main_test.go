package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/fhuszti/testimonials-video-go/test/testutil"
)

var GlobalEnv *testutil.Env

func TestMain(m *testing.M) {
	code := func() int {
		env, cleanup, err := testutil.StartEnv()
		defer cleanup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "environment setup failed: %v\n", err)
			return 1
		}
		GlobalEnv = env

		return m.Run()
	}()

	os.Exit(code)
}

func setup(t *testing.T) (*testutil.TestDB, *testutil.TestBuckets) {
	t.Helper()
	ctx := t.Context()

	testDB, err := testutil.SetupTestDB(ctx)
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.Cleanup(); err != nil {
			t.Errorf("cleanup DB: %v", err)
		}
	})

	tb, err := testutil.SetupTestBuckets(ctx, GlobalEnv.MinIO)
	if err != nil {
		t.Fatalf("setup buckets: %v", err)
	}
	t.Cleanup(func() {
		if err := tb.Cleanup(); err != nil {
			t.Errorf("cleanup buckets: %v", err)
		}
	})

	if err := testutil.FlushRedis(ctx, GlobalEnv.RedisAddr); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return testDB, tb
}

func ptrString(s string) *string { return &s }
