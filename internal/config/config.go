// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file, a .env file and RDV_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseDriver is sqlite or postgres.
	DatabaseDriver string `koanf:"database_driver"`

	// DatabaseDSN is a file path for sqlite or a connection URL for postgres.
	DatabaseDSN string `koanf:"database_dsn"`

	// BlobPath is the bbolt file backing image, audio and poster buckets.
	BlobPath string `koanf:"blob_path"`

	// AdminUsername and AdminPassword are the single official credential.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// SessionSecret signs admin session tokens.
	SessionSecret string `koanf:"session_secret"`

	// SessionTTL bounds how long an admin session stays valid.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// LoginRate and LoginBurst throttle POST /auth/login per client.
	LoginRate  float64 `koanf:"login_rate"`
	LoginBurst int     `koanf:"login_burst"`

	// PosterWorkers and PosterQueueSize size the pre-render pipeline.
	PosterWorkers   int `koanf:"poster_workers"`
	PosterQueueSize int `koanf:"poster_queue_size"`

	// IdempotencySize caps remembered Idempotency-Key headers.
	IdempotencySize int `koanf:"idempotency_size"`

	// StandingsCron schedules leaderboard gauge refreshes; empty disables it.
	StandingsCron string `koanf:"standings_cron"`

	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// TTSURL is the external text-to-speech function; empty disables audio.
	TTSURL string `koanf:"tts_url"`

	// TTSVoice is the default voice passed to the TTS function.
	TTSVoice string `koanf:"tts_voice"`

	// TTSTimeout bounds one synthesis call.
	TTSTimeout time.Duration `koanf:"tts_timeout"`

	// MetricsNamespace and MetricsSubsystem prefix every Prometheus series.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBuckets overrides the millisecond latency histogram buckets;
	// empty keeps the built-in set.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DatabaseDriver:      "sqlite",
		DatabaseDSN:         "data/rendezvous.db",
		BlobPath:            "data/blobs.db",
		AdminUsername:       "admin",
		AdminPassword:       "admin1209",
		SessionSecret:       "change-me",
		SessionTTL:          24 * time.Hour,
		LoginRate:           0.5,
		LoginBurst:          5,
		PosterWorkers:       runtime.NumCPU(),
		PosterQueueSize:     1_000,
		IdempotencySize:     10_000,
		StandingsCron:       "@every 1m",
		MaxUploadBytes:      10 << 20,
		MaxLeaderboardLimit: 100,
		CORSOrigins:         []string{"*"},
		TTSVoice:            "alloy",
		TTSTimeout:          30 * time.Second,
		MetricsNamespace:    "rendezvous",
		MetricsSubsystem:    "festival",
	}
}
