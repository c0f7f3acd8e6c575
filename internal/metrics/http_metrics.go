package metrics

// HTTPMetrics defines the minimal contract needed by HTTP middleware to record metrics.
// Keeping this in a shared package avoids adapter packages importing the
// observability package's concrete Prometheus types directly.
type HTTPMetrics interface {
	IncRequest(method, route, status string)
	ObserveRequestDuration(method, route string, seconds float64)
	ObserveResponseSize(method, route string, bytes float64)
}
