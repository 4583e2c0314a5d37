package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/db"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings configures the backend binaries (api, worker, migrate, reprocess-backlog).
type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	// JWTPublicKey is optional; when empty bearer tokens are not verified and
	// campaign tickets can be requested anonymously.
	JWTPublicKey string

	StorageDriver  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	StagingBucket  string
	PlaybackBucket string

	RedisAddr     string
	RedisPassword string

	FFmpegPath string

	// TicketRateLimit caps upload tickets per client IP per minute.
	TicketRateLimit int
}

func (s *Settings) Buckets() []string {
	return []string{s.StagingBucket, s.PlaybackBucket}
}

func (s *Settings) DBPool() db.PoolConfig {
	return db.PoolConfig{
		DSN:             s.MariaDBDSN,
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: s.ConnMaxLifetime,
	}
}

// CaptureSettings configures the terminal capture client.
type CaptureSettings struct {
	APIBaseURL   string
	UploadMode   string
	CampaignID   string
	Token        string
	PollInterval time.Duration
	PollAttempts int
	HTTPTimeout  time.Duration
	FFmpegPath   string
	VideoInput   string
	AudioInput   string
	MaxDuration  time.Duration
}

func newViper() *viper.Viper {
	ctx := context.Background()
	if err := godotenv.Load(".env"); err != nil {
		logger.Debug(ctx, "No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		logger.Debugf(ctx, "could not read .env file: %v", err)
	}
	return v
}

func require(v *viper.Viper, keys ...string) error {
	for _, k := range keys {
		if !v.IsSet(k) || strings.TrimSpace(v.GetString(k)) == "" {
			return fmt.Errorf("%s is required", k)
		}
	}
	return nil
}

func Load() (*Settings, error) {
	v := newViper()

	if err := require(v,
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
	); err != nil {
		return nil, err
	}

	v.SetDefault("STORAGE_DRIVER", "minio")
	v.SetDefault("STAGING_BUCKET", "testimonials-staging")
	v.SetDefault("PLAYBACK_BUCKET", "testimonials-playback")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("TICKET_RATE_LIMIT", 10)

	s := &Settings{
		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      v.GetInt("SERVER_PORT"),
		JWTPublicKey:    v.GetString("JWT_PUBLIC_KEY"),
		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		S3Region:        v.GetString("S3_REGION"),
		S3Endpoint:      v.GetString("S3_ENDPOINT"),
		S3AccessKey:     v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:     v.GetString("S3_SECRET_KEY"),
		StagingBucket:   v.GetString("STAGING_BUCKET"),
		PlaybackBucket:  v.GetString("PLAYBACK_BUCKET"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		FFmpegPath:      v.GetString("FFMPEG_PATH"),
		TicketRateLimit: v.GetInt("TICKET_RATE_LIMIT"),
	}

	switch s.StorageDriver {
	case "minio":
		if err := require(v, "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY"); err != nil {
			return nil, err
		}
	case "s3":
		if err := require(v, "S3_REGION"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER %q is not supported", s.StorageDriver)
	}
	if s.StagingBucket == s.PlaybackBucket {
		return nil, fmt.Errorf("STAGING_BUCKET and PLAYBACK_BUCKET must differ")
	}

	return s, nil
}

func LoadCapture() (*CaptureSettings, error) {
	v := newViper()

	if err := require(v, "TESTIMONIALS_API_URL"); err != nil {
		return nil, err
	}

	v.SetDefault("CAPTURE_UPLOAD_MODE", "anonymous")
	v.SetDefault("CAPTURE_POLL_INTERVAL", "2s")
	v.SetDefault("CAPTURE_POLL_ATTEMPTS", 30)
	v.SetDefault("CAPTURE_HTTP_TIMEOUT", "30s")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("CAPTURE_VIDEO_INPUT", "v4l2:/dev/video0")
	v.SetDefault("CAPTURE_AUDIO_INPUT", "alsa:default")
	v.SetDefault("CAPTURE_MAX_DURATION", "3m")

	s := &CaptureSettings{
		APIBaseURL:   strings.TrimRight(v.GetString("TESTIMONIALS_API_URL"), "/"),
		UploadMode:   strings.ToLower(v.GetString("CAPTURE_UPLOAD_MODE")),
		CampaignID:   v.GetString("CAPTURE_CAMPAIGN_ID"),
		Token:        v.GetString("CAPTURE_TOKEN"),
		PollInterval: v.GetDuration("CAPTURE_POLL_INTERVAL"),
		PollAttempts: v.GetInt("CAPTURE_POLL_ATTEMPTS"),
		HTTPTimeout:  v.GetDuration("CAPTURE_HTTP_TIMEOUT"),
		FFmpegPath:   v.GetString("FFMPEG_PATH"),
		VideoInput:   v.GetString("CAPTURE_VIDEO_INPUT"),
		AudioInput:   v.GetString("CAPTURE_AUDIO_INPUT"),
		MaxDuration:  v.GetDuration("CAPTURE_MAX_DURATION"),
	}

	switch s.UploadMode {
	case "campaign":
		if err := require(v, "CAPTURE_CAMPAIGN_ID"); err != nil {
			return nil, err
		}
	case "anonymous":
	default:
		return nil, fmt.Errorf("CAPTURE_UPLOAD_MODE %q is not supported", s.UploadMode)
	}
	if s.PollInterval <= 0 {
		return nil, fmt.Errorf("CAPTURE_POLL_INTERVAL must be positive")
	}
	if s.PollAttempts < 1 {
		return nil, fmt.Errorf("CAPTURE_POLL_ATTEMPTS must be at least 1")
	}

	return s, nil
}
