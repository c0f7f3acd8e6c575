// Package config provides environment-based configuration for the
// ambient process stack: logging, tracing, resilience defaults and the
// RFC 7807 problem base URL. Gateway topology (networks, pipelines,
// endpoints, middleware, backends) is not here — that lives in
// gatewayconfig and is loaded from the TOML file named by --config.
// This package only covers the handful of settings that make sense as
// process environment rather than declared topology.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the ambient process settings for one gateway instance.
// All fields have sensible defaults; none are required.
type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Env         string `envconfig:"ENV" default:"development"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"harmony"`

	// Error response contract (RFC 7807)
	ProblemBaseURL string `envconfig:"PROBLEM_BASE_URL" default:"https://harmony.invalid/problems/"`

	// OpenTelemetry
	OTELEnabled          bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELExporterEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELExporterInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`

	// HTTP request handling
	// MaxRequestSize is the maximum request body size in bytes. Default: 1MB.
	MaxRequestSize int64 `envconfig:"MAX_REQUEST_SIZE" default:"1048576"`

	// Server Timeouts
	HTTPReadTimeout       time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	HTTPWriteTimeout      time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPIdleTimeout       time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	HTTPReadHeaderTimeout time.Duration `envconfig:"HTTP_READ_HEADER_TIMEOUT" default:"10s"`
	HTTPMaxHeaderBytes    int           `envconfig:"HTTP_MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout       time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// Resilience - Circuit Breaker (feeds resilience.NewResilienceConfig
	// as the default applied where a backend's own config omits one)
	CBMaxRequests      int           `envconfig:"CB_MAX_REQUESTS" default:"3"`
	CBInterval         time.Duration `envconfig:"CB_INTERVAL" default:"10s"`
	CBTimeout          time.Duration `envconfig:"CB_TIMEOUT" default:"30s"`
	CBFailureThreshold int           `envconfig:"CB_FAILURE_THRESHOLD" default:"5"`

	// Resilience - Retry
	RetryMaxAttempts  int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryInitialDelay time.Duration `envconfig:"RETRY_INITIAL_DELAY" default:"100ms"`
	RetryMaxDelay     time.Duration `envconfig:"RETRY_MAX_DELAY" default:"5s"`
	RetryMultiplier   float64       `envconfig:"RETRY_MULTIPLIER" default:"2.0"`

	// Resilience - Timeout, one tier per backend transport
	TimeoutDefault     time.Duration `envconfig:"TIMEOUT_DEFAULT" default:"30s"`
	TimeoutDIMSE       time.Duration `envconfig:"TIMEOUT_DIMSE" default:"5s"`
	TimeoutHTTPBackend time.Duration `envconfig:"TIMEOUT_HTTP_BACKEND" default:"10s"`

	// Resilience - Bulkhead
	BulkheadMaxConcurrent int `envconfig:"BULKHEAD_MAX_CONCURRENT" default:"10"`
	BulkheadMaxWaiting    int `envconfig:"BULKHEAD_MAX_WAITING" default:"100"`

	// Resilience - Graceful Shutdown
	ShutdownDrainPeriod time.Duration `envconfig:"SHUTDOWN_DRAIN_PERIOD" default:"30s"`
	ShutdownGracePeriod time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"5s"`

	// LogRedactEmailMode controls how internal/observability's structured
	// logger redacts email-shaped field values (domain.EmailModeFull or
	// domain.EmailModePartial). Every other PII/PHI field name it
	// recognizes is always fully redacted.
	LogRedactEmailMode string `envconfig:"LOG_REDACT_EMAIL_MODE" default:"full"`
}

// Redacted returns a safe string representation of the Config for logging.
// Nothing in Config is currently sensitive, but the method is kept so
// callers logging configuration at startup don't need to know that.
func (c *Config) Redacted() string {
	return fmt.Sprintf("%+v", *c)
}

// Load reads the ambient process configuration from environment
// variables. Gateway topology is loaded separately via
// gatewayconfig.Load and is not affected by this function.
func Load() (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.OTELEnabled && strings.TrimSpace(c.OTELExporterEndpoint) == "" {
		return fmt.Errorf("OTEL_ENABLED is true but OTEL_EXPORTER_OTLP_ENDPOINT is empty")
	}

	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("invalid SERVICE_NAME: must not be empty")
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))

	switch c.Env {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("invalid ENV: must be one of development, staging, production, test")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL: must be one of debug, info, warn, error")
	}

	if err := validateProblemBaseURL(c.ProblemBaseURL); err != nil {
		return err
	}

	if c.MaxRequestSize < 1 {
		return fmt.Errorf("invalid MAX_REQUEST_SIZE: must be greater than 0")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: must be greater than 0")
	}

	if c.ShutdownDrainPeriod <= 0 {
		return fmt.Errorf("invalid SHUTDOWN_DRAIN_PERIOD: must be greater than 0")
	}
	if c.ShutdownGracePeriod < 0 {
		return fmt.Errorf("invalid SHUTDOWN_GRACE_PERIOD: must be non-negative")
	}

	return nil
}

func validateProblemBaseURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("invalid PROBLEM_BASE_URL: must not be empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid PROBLEM_BASE_URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid PROBLEM_BASE_URL: must be an absolute URL (scheme + host)")
	}
	if !strings.HasSuffix(trimmed, "/") {
		return fmt.Errorf("invalid PROBLEM_BASE_URL: must end with a trailing slash")
	}
	return nil
}

// IsDevelopment returns true if running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
