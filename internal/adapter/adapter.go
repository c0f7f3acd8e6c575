package adapter

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// ShutdownSignal is the process-wide cancellation contract of §5: every
// adapter observes Done() to stop accepting new work, and is given
// GracePeriod to let in-flight requests finish before forced termination.
type ShutdownSignal interface {
	Done() <-chan struct{}
	GracePeriod() (seconds int)
}

// Adapter implements spec.md §4.E's ProtocolAdapter contract.
type Adapter interface {
	// Protocol identifies the wire protocol this adapter serves.
	Protocol() envelope.Protocol

	// Start binds the listener and begins accepting connections. It
	// returns once the listener is live or fails to bind — the
	// orchestrator must not report ready until this returns successfully
	// for every adapter, per §5.
	Start(ctx context.Context, shutdown ShutdownSignal) error

	// Summary is a human-readable description for start-up logs.
	Summary() string
}
