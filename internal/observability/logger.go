// Package observability provides logging, tracing, and metrics utilities.
package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/aurabx/harmony/internal/config"
	"github.com/aurabx/harmony/internal/domain"
	"github.com/aurabx/harmony/internal/httpctx"
	"github.com/aurabx/harmony/internal/redact"
)

// Log key constants for consistent log field names across every adapter and
// pipeline component.
const (
	LogKeyService   = "service"
	LogKeyEnv       = "env"
	LogKeyRequestID = "requestId"
	LogKeyTraceID   = "traceId"
	LogKeySpanID    = "spanId"
	LogKeyMethod    = "method"
	LogKeyRoute     = "route"
	LogKeyStatus    = "status"
	LogKeyDuration  = "duration_ms"
	LogKeyBytes     = "bytes"
)

// NewLogger creates a structured JSON logger with default attributes.
// The logger includes service and environment fields on every log entry.
// Log level is controlled via the LOG_LEVEL configuration. Every attribute
// value passes through a PIIRedactor first, so PHI carried in envelope
// metadata (email, ssn, patient identifiers) never reaches the log sink.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	redactor := redact.NewPIIRedactor(domain.RedactorConfig{EmailMode: cfg.LogRedactEmailMode})
	handler := NewRedactingHandler(jsonHandler, redactor)

	return slog.New(handler).With(
		LogKeyService, cfg.ServiceName,
		LogKeyEnv, cfg.Env,
	)
}

// parseLogLevel converts a log level string to slog.Level.
// Defaults to Info level for unknown values.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoggerFromContext returns a logger enriched with request_id, trace_id, and
// span_id pulled from ctx. Any ID absent from ctx is omitted from the
// returned logger, so this is safe to call outside a request lifecycle.
func LoggerFromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	enriched := base
	if requestID := httpctx.GetRequestID(ctx); requestID != "" {
		enriched = enriched.With(LogKeyRequestID, requestID)
	}
	if traceID := httpctx.GetTraceID(ctx); traceID != "" && traceID != httpctx.EmptyTraceID {
		enriched = enriched.With(LogKeyTraceID, traceID)
	}
	if spanID := httpctx.GetSpanID(ctx); spanID != "" && spanID != httpctx.EmptySpanID {
		enriched = enriched.With(LogKeySpanID, spanID)
	}
	return enriched
}
