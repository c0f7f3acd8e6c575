// Package resilience wraps every outbound call internal/backend makes to a
// configured gateway backend (HTTP target, DICOM SCU association) in
// bulkhead, circuit breaker, retry, and timeout protection, composed by
// ResilienceWrapper in that order (outermost first).
//
// # Configuration
//
// Process-wide defaults come from internal/config's envconfig-loaded
// fields; the one per-backend override, gatewayconfig's
// backends.<name>.options.timeout_ms, is applied on top in
// internal/orchestrator.buildBackend:
//
//	# Circuit Breaker
//	CB_MAX_REQUESTS=3          # Requests allowed in half-open state
//	CB_INTERVAL=10s            # Cyclic period for clearing counts
//	CB_TIMEOUT=30s             # Time to wait before half-open
//	CB_FAILURE_THRESHOLD=5     # Failures to trip the breaker
//
//	# Retry
//	RETRY_MAX_ATTEMPTS=3       # Maximum retry attempts
//	RETRY_INITIAL_DELAY=100ms  # Initial backoff delay
//	RETRY_MAX_DELAY=5s         # Maximum backoff delay cap
//	RETRY_MULTIPLIER=2.0       # Exponential multiplier
//
//	# Timeout, one tier per backend transport
//	TIMEOUT_DEFAULT=30s        # Fallback for backend service types without a named tier
//	TIMEOUT_DIMSE=5s           # dicom_scu backend association timeout
//	TIMEOUT_HTTP_BACKEND=10s   # http backend round-trip timeout
//
// # Error Codes
//
// | Code     | Name               | Description                              |
// |----------|--------------------| -----------------------------------------|
// | RES-001  | CircuitOpen        | Circuit breaker is open, requests rejected|
// | RES-002  | BulkheadFull       | Bulkhead capacity reached, request rejected|
// | RES-003  | TimeoutExceeded    | Operation timeout exceeded               |
// | RES-004  | MaxRetriesExceeded | Maximum retry attempts exhausted         |
//
// # Usage
//
// internal/orchestrator.buildBackend wraps every Backend it constructs:
//
//	wrapper := resilience.NewResilienceWrapper(
//	    resilience.WithCircuitBreakerFactory(resilience.NewBackendCircuitBreakerFactory(cfg.CircuitBreaker)),
//	    resilience.WithWrapperRetrier(resilience.NewRetrier(name, cfg.Retry)),
//	    resilience.WithWrapperTimeout(resilience.NewTimeout(name, timeout)),
//	    resilience.WithWrapperBulkhead(resilience.PerBackendBulkhead(name, cfg.Bulkhead)),
//	)
//	return backend.NewResilient(inner, wrapper), nil
package resilience
