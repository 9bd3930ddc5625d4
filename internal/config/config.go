package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the photo service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"fody-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"FODY_API_PORT" envDefault:"8080"`
	LogLevel        string        `env:"FODY_LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required, no default)
	DatabaseURL string `env:"FODY_DATABASE_URL,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"FODY_STORAGE_BACKEND" envDefault:"local"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath    string `env:"FODY_LOCAL_STORAGE_PATH" envDefault:"./fody-data"`
	LocalStorageBaseURL string `env:"FODY_LOCAL_STORAGE_BASE_URL"` // Base URL for serving files (e.g., "http://localhost:8080/v1/photos")

	// S3 Storage Configuration
	S3Endpoint     string `env:"FODY_S3_ENDPOINT"`
	S3Region       string `env:"FODY_S3_REGION" envDefault:"us-west-2"`
	S3Bucket       string `env:"FODY_S3_BUCKET"`
	S3AccessKeyID  string `env:"FODY_S3_ACCESS_KEY_ID"`     // AWS standard naming
	S3SecretKey    string `env:"FODY_S3_SECRET_ACCESS_KEY"` // AWS standard naming
	S3UsePathStyle bool   `env:"FODY_S3_USE_PATH_STYLE" envDefault:"true"`

	// Photo Configuration
	PhotoMinBytes    int64         `env:"FODY_PHOTO_MIN_BYTES" envDefault:"102400"`
	PhotoMaxBytes    int64         `env:"FODY_PHOTO_MAX_BYTES" envDefault:"20971520"`
	ThumbnailHeight  int           `env:"FODY_THUMBNAIL_HEIGHT" envDefault:"250"`
	ThumbnailTimeout time.Duration `env:"FODY_THUMBNAIL_TIMEOUT" envDefault:"30s"`

	// Authentication
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	if cfg.PhotoMaxBytes <= 0 {
		cfg.PhotoMaxBytes = 20 * 1024 * 1024
	}
	if cfg.PhotoMinBytes < 0 {
		cfg.PhotoMinBytes = 0
	}
	if cfg.ThumbnailHeight <= 0 {
		cfg.ThumbnailHeight = 250
	}
	if cfg.IsS3Storage() && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("FODY_S3_BUCKET is required when FODY_STORAGE_BACKEND is s3")
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "local"
}

// IsS3Storage returns true if S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "s3"
}
