// Package errors defines the gateway's error taxonomy: a small set of stable
// Kinds that every component (middleware, endpoint, backend) uses to report
// failure, and the default HTTP status each kind maps to. The taxonomy is
// intentionally coarse — it exists so the PipelineExecutor can map any
// component error to a response without knowing the component's internals.
package errors

import (
	"errors"
	"fmt"
)

// Kind is a stable, documented error classification used throughout the
// pipeline core. Kinds are not meant to be extended by middleware authors;
// new wire-level detail belongs in the Message or in envelope metadata.
type Kind string

const (
	// KindConfig marks invalid configuration discovered at start-up.
	KindConfig Kind = "config"
	// KindAuth marks a missing, invalid, or expired credential.
	KindAuth Kind = "auth"
	// KindNotFound marks no matching route, resource, or rule.
	KindNotFound Kind = "not_found"
	// KindTransform marks a middleware that could not process its payload.
	KindTransform Kind = "transform"
	// KindBackendTransport marks an unreachable backend or connection error.
	KindBackendTransport Kind = "backend_transport"
	// KindBackendTimeout marks a backend that exceeded its time budget.
	KindBackendTimeout Kind = "backend_timeout"
	// KindBackendCanceled marks a backend invocation aborted by the shared
	// cancellation signal.
	KindBackendCanceled Kind = "backend_canceled"
	// KindInternal marks an unexpected logic or invariant failure.
	KindInternal Kind = "internal"
)

// DefaultStatus returns the HTTP-style status code §7 assigns to k by
// default. Callers that already have a protocol-native status (e.g. a
// short-circuiting middleware, or a backend that passed through a 4xx/5xx)
// should prefer that status over DefaultStatus.
func (k Kind) DefaultStatus() int {
	switch k {
	case KindAuth:
		return 401
	case KindNotFound:
		return 404
	case KindTransform, KindInternal:
		return 500
	case KindBackendTransport:
		return 502
	case KindBackendTimeout:
		return 504
	case KindBackendCanceled:
		return 503
	case KindConfig:
		return 0 // fails start-up, never reaches a response
	default:
		return 500
	}
}

// Retryable reports whether §7 marks k as retryable by the caller. The core
// never retries on its own behalf; this only documents caller guidance.
func (k Kind) Retryable() bool {
	return k == KindBackendTransport || k == KindBackendTimeout
}

// GatewayError is the error type every pipeline component returns to signal
// a classified failure. Component is a free-form label ("jwt_auth",
// "http_backend:orders") used for log attribution; it is never shown to
// clients.
type GatewayError struct {
	Kind      Kind
	Component string
	Message   string
	cause     error
}

// New creates a GatewayError with no wrapped cause.
func New(kind Kind, component, message string) *GatewayError {
	return &GatewayError{Kind: kind, Component: component, Message: message}
}

// Wrap creates a GatewayError that chains cause via Unwrap.
func Wrap(kind Kind, component, message string, cause error) *GatewayError {
	return &GatewayError{Kind: kind, Component: component, Message: message, cause: cause}
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Kind, e.Component, e.Message, e.cause)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Component, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *GatewayError) Unwrap() error { return e.cause }

// Is matches by Kind so callers can write errors.Is(err, errors.KindAuth)
// style checks via AsKind instead, since Kind itself is not an error.
func (e *GatewayError) Is(target error) bool {
	var t *GatewayError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// AsKind extracts the Kind of err if it is (or wraps) a *GatewayError.
// The second return is false for errors the taxonomy does not recognize,
// in which case callers should treat the error as KindInternal.
func AsKind(err error) (Kind, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}

// StatusFor returns the response status to use for err, falling back to
// KindInternal's default when err does not carry a recognized Kind.
func StatusFor(err error) int {
	kind, ok := AsKind(err)
	if !ok {
		return KindInternal.DefaultStatus()
	}
	if status := kind.DefaultStatus(); status != 0 {
		return status
	}
	return KindInternal.DefaultStatus()
}
