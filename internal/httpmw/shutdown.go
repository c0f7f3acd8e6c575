// Package httpmw provides the ambient HTTP middleware stack wrapped around
// every protocol adapter's router: request ID, logging, recovery, tracing,
// metrics, and graceful-shutdown draining. These are distinct from pipeline
// middleware (internal/middleware), which implement the spec's domain
// cross-cutting behavior (auth, filtering, transform).
package httpmw

import (
	"net/http"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/httpctx"
	"github.com/aurabx/harmony/internal/httpx"
)

// ShutdownCoordinator tracks in-flight requests against the process-wide
// cancellation signal described in §5. The orchestrator's shared coordinator
// satisfies this interface for every adapter.
type ShutdownCoordinator interface {
	// IncrementActive increments the active request counter. It returns
	// false once shutdown has been initiated, in which case the caller
	// must reject the request instead of serving it.
	IncrementActive() bool

	// DecrementActive decrements the active request counter.
	DecrementActive()
}

// ShutdownRetryAfterSeconds is the Retry-After header value returned once
// the adapter has stopped accepting new work.
const ShutdownRetryAfterSeconds = "30"

// Shutdown returns a middleware that rejects new requests once coord has
// begun draining, returning 503 per §5's cancellation contract. It should
// run early in the chain, after RequestID and Recoverer but before any
// pipeline work begins.
func Shutdown(coord ShutdownCoordinator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !coord.IncrementActive() {
				w.Header().Set("Retry-After", ShutdownRetryAfterSeconds)
				w.Header().Set("Connection", "close")

				err := gwerrors.New(gwerrors.KindBackendCanceled, "adapter", "server is shutting down, please retry later")
				problem := httpx.FromError(r, err)
				problem.RequestID = httpctx.GetRequestID(r.Context())
				httpx.WriteProblem(w, problem)
				return
			}
			defer coord.DecrementActive()

			next.ServeHTTP(w, r)
		})
	}
}
