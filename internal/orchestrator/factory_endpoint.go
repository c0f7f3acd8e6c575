package orchestrator

import (
	"github.com/aurabx/harmony/internal/endpoint"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/gatewayconfig"
)

// buildEndpoint constructs the Endpoint Service named by cfg.Service, per
// spec.md §4.A's built-in kinds. gwCfg is threaded through only for the
// management kind, which renders read-only views over the loaded
// configuration.
func buildEndpoint(name string, cfg gatewayconfig.EndpointConfig, gwCfg *gatewayconfig.Config, collab Collaborators) (endpoint.Service, error) {
	switch cfg.Service {
	case "http":
		return endpoint.NewHTTP(name), nil
	case "fhir":
		return endpoint.NewFHIR(name), nil
	case "jmix":
		return endpoint.NewJMIX(name), nil
	case "dicomweb":
		return endpoint.NewDICOMweb(name), nil
	case "dicom":
		return endpoint.NewDICOM(name), nil
	case "echo":
		return endpoint.NewEcho(name), nil
	case "management":
		return endpoint.NewManagement(name, gwCfg, collab.TokenExchanger), nil
	default:
		return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "unknown endpoint service "+cfg.Service)
	}
}

// routeKind reports which adapter family serves an endpoint, decided the
// same way gatewayconfig's collision check decides it: by which routing
// option the endpoint declares. "echo" is deliberately protocol-agnostic
// (spec.md §4.A) and is routed by whichever key its own config carries.
func routeKind(cfg gatewayconfig.EndpointConfig) (httpPrefix string, aeTitle string, ok bool) {
	httpPrefix = stringOption(cfg.Options, "path_prefix", "")
	aeTitle = stringOption(cfg.Options, "ae_title", "")
	return httpPrefix, aeTitle, httpPrefix != "" || aeTitle != ""
}
