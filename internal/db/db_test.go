package db

import (
	"context"
	"strings"
	"testing"
	"time"
)

// TestNew_PingError ensures that ping failures are propagated
// even when closing the connection succeeds.
func TestNew_PingError(t *testing.T) {
	// unreachable port, the ping fails quickly
	cfg := PoolConfig{DSN: "invalid:invalid@tcp(127.0.0.1:0)/dbname", MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxLifetime: time.Second}
	db, err := New(context.Background(), cfg)
	if err == nil {
		if db != nil {
			_ = db.Close()
		}
		t.Fatalf("expected error, got nil")
	}
}

func TestNew_InvalidDSN(t *testing.T) {
	cfg := PoolConfig{DSN: "not a dsn", MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxLifetime: time.Second}
	_, err := New(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for malformed DSN, got nil")
	}
	if !strings.Contains(err.Error(), "invalid MariaDB DSN") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPoolConfig_DSN(t *testing.T) {
	tests := []struct {
		name  string
		cfg   PoolConfig
		want  []string
		avoid []string
	}{
		{
			name:  "parseTime is forced",
			cfg:   PoolConfig{DSN: "user:pass@tcp(db:3306)/testimonials"},
			want:  []string{"parseTime=true", "/testimonials"},
			avoid: []string{"multiStatements"},
		},
		{
			name: "migrations enable multi statements",
			cfg:  PoolConfig{DSN: "user:pass@tcp(db:3306)/testimonials?charset=utf8mb4", MultiStatements: true},
			want: []string{"parseTime=true", "multiStatements=true", "charset=utf8mb4"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cfg.dsn()
			if err != nil {
				t.Fatalf("dsn(): %v", err)
			}
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("dsn %q missing %q", got, w)
				}
			}
			for _, a := range tc.avoid {
				if strings.Contains(got, a) {
					t.Errorf("dsn %q should not contain %q", got, a)
				}
			}
		})
	}
}
