// Package httpmw provides the ambient HTTP middleware stack wrapped around
// the HTTP ProtocolAdapter's chi router: request ID assignment, panic
// recovery, shutdown draining, body size limits, logging, tracing, and
// metrics.
//
// These are adapter-level concerns, distinct from pipeline middleware
// (internal/middleware), which implements the gateway's cross-cutting
// domain behavior (auth, filtering, transform) against the protocol-neutral
// envelope rather than the raw *http.Request.
//
// # Ordering
//
// Applied outermost to innermost:
//
//  1. RequestID   - assigns/propagates X-Request-ID
//  2. Recoverer   - catches panics, returns an RFC 7807 500
//  3. Shutdown    - rejects new work once the adapter is draining
//  4. RequestLogger - structured request/response logging
//  5. Tracing     - OpenTelemetry span per request
//  6. Metrics     - Prometheus request counters/histograms
//  7. SecureHeaders - baseline security headers
//  8. BodyLimiter - caps request body size
//
// Chi router integration:
//
//	r := chi.NewRouter()
//	r.Use(httpmw.RequestID)
//	r.Use(httpmw.Recoverer(logger))
//	r.Use(httpmw.Shutdown(coordinator))
//	r.Use(httpmw.RequestLogger(logger))
//
// Error responses use RFC 7807 Problem Details via internal/httpx, classified
// through internal/errors' Kind taxonomy.
package httpmw
