package observability

import (
	"net/http"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// HealthCheckRegistry wraps heptiolabs/healthcheck with this gateway's own
// liveness/readiness patterns: liveness asks whether the process itself is
// sound (always true once it's running; there is no database connection
// to lose), readiness asks whether every configured adapter has bound its
// listener.
type HealthCheckRegistry struct {
	handler healthcheck.Handler
}

// NewHealthCheckRegistry creates a registry reporting its check results as
// Prometheus metrics under registry, namespaced by namespace.
func NewHealthCheckRegistry(registry prometheus.Registerer, namespace string) *HealthCheckRegistry {
	return &HealthCheckRegistry{handler: healthcheck.NewMetricsHandler(registry, namespace)}
}

// AddLivenessCheck registers a liveness check. Every liveness check is also
// evaluated as part of readiness, per heptiolabs/healthcheck's own contract.
func (r *HealthCheckRegistry) AddLivenessCheck(name string, check healthcheck.Check) {
	r.handler.AddLivenessCheck(name, check)
}

// AddReadinessCheck registers a readiness check, independent of liveness.
func (r *HealthCheckRegistry) AddReadinessCheck(name string, check healthcheck.Check) {
	r.handler.AddReadinessCheck(name, check)
}

// LiveHandler serves /healthz: 200 while the process is alive, 503 if any
// liveness check fails.
func (r *HealthCheckRegistry) LiveHandler() http.HandlerFunc {
	return r.handler.LiveEndpoint
}

// ReadyHandler serves /readyz: 200 once every registered readiness check
// passes, 503 otherwise.
func (r *HealthCheckRegistry) ReadyHandler() http.HandlerFunc {
	return r.handler.ReadyEndpoint
}
