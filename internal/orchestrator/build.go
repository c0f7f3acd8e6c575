package orchestrator

import (
	"github.com/aurabx/harmony/internal/backend"
	"github.com/aurabx/harmony/internal/endpoint"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/gatewayconfig"
	"github.com/aurabx/harmony/internal/middleware"
	"github.com/aurabx/harmony/internal/pipeline"
	"github.com/aurabx/harmony/internal/resilience"
)

// builder resolves gatewayconfig's string name references into live
// endpoint/middleware/backend objects, caching each by name so a shared
// reference across pipelines builds once.
type builder struct {
	cfg           *gatewayconfig.Config
	collaborators Collaborators
	resilienceCfg resilience.ResilienceConfig

	endpoints  map[string]endpoint.Service
	middleware map[string]middleware.Middleware
	backends   map[string]backend.Backend

	// endpointNetworks records which networks each endpoint name serves on,
	// per its owning pipeline's Networks list — consulted by buildAdapters
	// to group endpoints per network.
	endpointNetworks map[string][]string
}

func newBuilder(cfg *gatewayconfig.Config, collab Collaborators, resilienceCfg resilience.ResilienceConfig) *builder {
	return &builder{
		cfg:           cfg,
		collaborators: collab,
		resilienceCfg: resilienceCfg,
		endpoints:        make(map[string]endpoint.Service),
		middleware:       make(map[string]middleware.Middleware),
		backends:         make(map[string]backend.Backend),
		endpointNetworks: make(map[string][]string),
	}
}

// managementEndpoint builds (or returns the cached) built-in management
// Service. Unlike endpoint, it does not consult cfg.Endpoints: management
// is configured via the standalone management section, not an
// endpoints.<name> entry.
func (b *builder) managementEndpoint() endpoint.Service {
	if svc, ok := b.endpoints[managementEndpointName]; ok {
		return svc
	}
	svc := endpoint.NewManagement(managementEndpointName, b.cfg, b.collaborators.TokenExchanger)
	b.endpoints[managementEndpointName] = svc
	return svc
}

func (b *builder) endpoint(name string) (endpoint.Service, error) {
	if svc, ok := b.endpoints[name]; ok {
		return svc, nil
	}
	cfg, ok := b.cfg.Endpoints[name]
	if !ok {
		return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "undeclared endpoint "+name)
	}
	svc, err := buildEndpoint(name, cfg, b.cfg, b.collaborators)
	if err != nil {
		return nil, err
	}
	b.endpoints[name] = svc
	return svc, nil
}

func (b *builder) middlewareByName(name string) (middleware.Middleware, error) {
	if mw, ok := b.middleware[name]; ok {
		return mw, nil
	}
	cfg, ok := b.cfg.Middleware[name]
	if !ok {
		return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "undeclared middleware "+name)
	}
	mw, err := buildMiddleware(name, cfg, b.collaborators)
	if err != nil {
		return nil, err
	}
	b.middleware[name] = mw
	return mw, nil
}

func (b *builder) backend(name string) (backend.Backend, error) {
	if be, ok := b.backends[name]; ok {
		return be, nil
	}
	cfg, ok := b.cfg.Backends[name]
	if !ok {
		return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "undeclared backend "+name)
	}
	be, err := buildBackend(name, cfg, b.collaborators, b.resilienceCfg)
	if err != nil {
		return nil, err
	}
	b.backends[name] = be
	return be, nil
}

// buildPipelines resolves every pipelines.<name> entry into a pipeline.Pipeline.
// A pipeline naming more than one endpoint (spec.md §6's "endpoints" list)
// is expanded into one pipeline.Pipeline per endpoint, keyed by endpoint
// name, so each endpoint's adapter routing stays one-to-one with its
// Service instance.
func (b *builder) buildPipelines() (map[string]*pipeline.Pipeline, error) {
	pipelines := make(map[string]*pipeline.Pipeline)

	for pipelineName, pCfg := range b.cfg.Pipelines {
		var mws []middleware.Middleware
		for _, mwName := range pCfg.Middleware {
			mw, err := b.middlewareByName(mwName)
			if err != nil {
				return nil, err
			}
			mws = append(mws, mw)
		}

		var backends []backend.Backend
		for _, beName := range pCfg.Backends {
			be, err := b.backend(beName)
			if err != nil {
				return nil, err
			}
			backends = append(backends, be)
		}

		for _, epName := range pCfg.Endpoints {
			svc, err := b.endpoint(epName)
			if err != nil {
				return nil, err
			}
			if _, exists := pipelines[epName]; exists {
				return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "endpoint "+epName+" is reachable from more than one pipeline")
			}
			pipelines[epName] = &pipeline.Pipeline{
				Name:       pipelineName,
				Endpoint:   svc,
				Middleware: mws,
				Backends:   backends,
			}
			b.endpointNetworks[epName] = pCfg.Networks
		}
	}

	return pipelines, nil
}
