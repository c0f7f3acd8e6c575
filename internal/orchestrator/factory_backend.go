package orchestrator

import (
	"net/http"

	"github.com/aurabx/harmony/internal/backend"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/gatewayconfig"
	"github.com/aurabx/harmony/internal/resilience"
)

// buildBackend constructs the Backend named by cfg.Service, per spec.md
// §4.C, and wraps it in backend.Resilient so every outbound call goes
// through the configured circuit breaker/retry/timeout/bulkhead wrapper.
func buildBackend(name string, cfg gatewayconfig.BackendConfig, collab Collaborators, resilienceCfg resilience.ResilienceConfig) (backend.Backend, error) {
	var inner backend.Backend

	timeouts := resilience.NewBackendTimeouts(resilienceCfg.Timeout)
	backendTimeout := timeouts.Default().Duration()

	switch cfg.Service {
	case "http":
		backendTimeout = timeouts.ForHTTPBackend().Duration()
		timeout := durationMSOption(cfg.Options, "timeout_ms", backendTimeout)
		inner = backend.NewHTTP(name, backend.HTTPConfig{
			Targets: cfg.Targets,
			Method:  stringOption(cfg.Options, "method", ""),
		}, &http.Client{Timeout: timeout})

	case "dicom_scu":
		if collab.DIMSEClient == nil {
			return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "backend "+name+" requires a DIMSEClient collaborator")
		}
		backendTimeout = timeouts.ForDIMSE().Duration()
		inner = backend.NewDICOMSCU(name, backend.DICOMSCUConfig{Targets: cfg.Targets}, collab.DIMSEClient)

	case "echo":
		inner = backend.NewEcho(name)

	default:
		return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "unknown backend service "+cfg.Service)
	}

	wrapper := resilience.NewResilienceWrapper(
		resilience.WithCircuitBreakerFactory(resilience.NewBackendCircuitBreakerFactory(resilienceCfg.CircuitBreaker)),
		resilience.WithWrapperRetrier(resilience.NewRetrier(name, resilienceCfg.Retry)),
		resilience.WithWrapperTimeout(resilience.NewTimeout(name, durationMSOption(cfg.Options, "timeout_ms", backendTimeout))),
		resilience.WithWrapperBulkhead(resilience.PerBackendBulkhead(name, resilienceCfg.Bulkhead)),
	)

	return backend.NewResilient(inner, wrapper), nil
}
