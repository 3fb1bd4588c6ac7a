// Package config provides centralized configuration management for the
// validation service and CLI. It loads configuration from environment
// variables with sensible defaults and validates all settings on startup to
// fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server     ServerConfig
	Upload     UploadConfig
	Rate       RateLimitConfig
	Security   SecurityConfig
	Logging    LoggingConfig
	Validation ValidationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds sheet upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted sheet size in bytes (default: 10MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel validations (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a validation slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds a single validation or transform (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ValidateLimit is requests per minute for validate and transform endpoints (default: 30)
	ValidateLimit int `env:"RATE_LIMIT_VALIDATE" default:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ValidationConfig holds SampleSheet validation settings shared by the server and CLI.
type ValidationConfig struct {
	// SchemaPath is the JSON Schema file for data records (required for the server)
	// Supports both SCHEMA_PATH and SAMPLESHEET_SCHEMA env vars
	SchemaPath string `env:"SCHEMA_PATH" envAlt:"SAMPLESHEET_SCHEMA" required:"true"`

	// AllowedColumns overrides the header allow-list (default: schema properties)
	AllowedColumns []string `env:"ALLOWED_COLUMNS"`

	// SingleCellKeyword marks single-cell samples in Description (default: 10X)
	SingleCellKeyword string `env:"SINGLE_CELL_KEYWORD" default:"10X"`

	// LaneColumn scopes duplicate checks; empty disables lane grouping (default: Lane)
	LaneColumn string `env:"LANE_COLUMN" default:"Lane"`

	// DataSections lists data section names in priority order (default: Data,BCLConvert_Data)
	DataSections []string `env:"DATA_SECTIONS" default:"Data,BCLConvert_Data"`

	// IndexField is the column reverse-complemented by default (default: index2)
	IndexField string `env:"INDEX_FIELD" default:"index2"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
