// Package backend implements spec.md §4.C's Backend contract: selecting a
// concrete target, serializing a request envelope onto the wire, issuing
// the call, and converting the result into a ResponseEnvelope.
//
// Every concrete Backend here is ordinarily wrapped with Resilient, which
// composes internal/resilience's circuit breaker, retry, and timeout layers
// around Invoke — spec.md §7 marks Backend.Transport/Backend.Timeout as
// "retryable (by caller)"; Resilient is that caller.
package backend
