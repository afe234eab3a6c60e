// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidConfig is returned when a loaded value fails validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")
	// ErrS3CredentialsIncomplete is returned when only one of the AWS keys is set.
	ErrS3CredentialsIncomplete = errors.New("config: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port           int   `env:"PORT, default=8080" json:"port" validate:"min=1,max=65535"`
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES, default=10485760" json:"max_upload_bytes" validate:"min=1"`

	// Generation service settings
	APIURL   string `env:"TRAILERFORGE_API_URL, default=http://localhost:8000" json:"api_url" validate:"required,url"`
	MediaURL string `env:"TRAILERFORGE_MEDIA_URL" json:"media_url,omitempty" validate:"omitempty,url"`

	// Export settings
	ExportDir    string `env:"EXPORT_DIR, default=/tmp/trailerforge" json:"export_dir"`
	ExportFormat string `env:"EXPORT_FORMAT, default=json" json:"export_format" validate:"oneof=json yaml"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Prefix           string `env:"S3_PREFIX, default=exports" json:"s3_prefix,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format" validate:"oneof=text json"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`                              // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// MediaBaseURL returns the base URL for media references, falling back to
// the generation service URL.
func (c *Config) MediaBaseURL() string {
	if c.MediaURL != "" {
		return c.MediaURL
	}
	return c.APIURL
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value formats and cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		return ErrS3CredentialsIncomplete
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, APIURL: %s, MediaURL: %s, MaxUploadBytes: %d, ExportDir: %s, ExportFormat: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.APIURL,
		c.MediaBaseURL(),
		c.MaxUploadBytes,
		c.ExportDir,
		c.ExportFormat,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
