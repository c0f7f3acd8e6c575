package orchestrator

import (
	"log/slog"
	"net/http"

	"github.com/aurabx/harmony/internal/adapter"
	"github.com/aurabx/harmony/internal/adapter/dimseadapter"
	"github.com/aurabx/harmony/internal/adapter/httpadapter"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/gatewayconfig"
	"github.com/aurabx/harmony/internal/httpmw"
	"github.com/aurabx/harmony/internal/metrics"
	"github.com/aurabx/harmony/internal/pipeline"
)

// adapterDeps are the shared collaborators every built adapter needs,
// threaded through from Orchestrator.
type adapterDeps struct {
	executor    *pipeline.Executor
	coordinator httpmw.ShutdownCoordinator
	recorder    metrics.HTTPMetrics
	logger      *slog.Logger
	transport   dimseadapter.Transport

	// liveHandler/readyHandler back /healthz and /readyz, mounted only on
	// the network carrying the management endpoint (see §3's "Management
	// API implementation" supplement). Either may be nil.
	liveHandler  http.HandlerFunc
	readyHandler http.HandlerFunc
}

// buildAdapters groups the resolved pipelines by network and endpoint
// routing family and builds one httpadapter.Adapter and/or one
// dimseadapter.Adapter per network, per spec.md §4.F's "one HTTP adapter
// per network with HTTP-family endpoints, one DIMSE adapter per network
// with DICOM endpoints" rule.
func buildAdapters(cfg *gatewayconfig.Config, b *builder, pipelines map[string]*pipeline.Pipeline, deps adapterDeps) ([]adapter.Adapter, error) {
	httpRoutesByNetwork := map[string][]httpadapter.Route{}
	dimseRoutesByNetwork := map[string][]dimseadapter.Route{}

	for epName, p := range pipelines {
		epCfg := cfg.Endpoints[epName]
		pathPrefix, aeTitle, ok := routeKind(epCfg)
		if !ok {
			return nil, gwerrors.New(gwerrors.KindConfig, factoryComponent, "endpoint "+epName+" declares neither path_prefix nor ae_title")
		}

		for _, network := range b.endpointNetworks[epName] {
			if pathPrefix != "" {
				httpRoutesByNetwork[network] = append(httpRoutesByNetwork[network], httpadapter.Route{PathPrefix: pathPrefix, Pipeline: p})
			}
			if aeTitle != "" {
				dimseRoutesByNetwork[network] = append(dimseRoutesByNetwork[network], dimseadapter.Route{AETitle: aeTitle, Pipeline: p})
			}
		}
	}

	if cfg.Management.Enabled {
		mgmtSvc := b.managementEndpoint()
		httpRoutesByNetwork[cfg.Management.Network] = append(httpRoutesByNetwork[cfg.Management.Network], httpadapter.Route{
			PathPrefix: cfg.Management.BasePath,
			Pipeline:   &pipeline.Pipeline{Name: managementEndpointName, Endpoint: mgmtSvc},
		})
	}

	var adapters []adapter.Adapter
	for network, netCfg := range cfg.Network {
		if routes, ok := httpRoutesByNetwork[network]; ok {
			httpCfg := httpadapter.Config{
				Name:        network,
				BindAddress: netCfg.HTTP.BindAddress,
				BindPort:    netCfg.HTTP.BindPort,
				Routes:      routes,
				Executor:    deps.executor,
				Logger:      deps.logger,
				Coordinator: deps.coordinator,
				Recorder:    deps.recorder,
			}
			if cfg.Management.Enabled && network == cfg.Management.Network {
				httpCfg.LiveHandler = deps.liveHandler
				httpCfg.ReadyHandler = deps.readyHandler
			}
			a, err := httpadapter.NewAdapter(httpCfg)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		}

		if routes, ok := dimseRoutesByNetwork[network]; ok {
			a, err := dimseadapter.NewAdapter(dimseadapter.Config{
				Name:        network,
				BindAddress: netCfg.HTTP.BindAddress,
				BindPort:    netCfg.HTTP.BindPort,
				Routes:      routes,
				Executor:    deps.executor,
				Transport:   deps.transport,
				Logger:      deps.logger,
			})
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		}
	}

	return adapters, nil
}

// managementEndpointName identifies the built-in management Service and
// its synthetic pipeline — it has no matching entry in cfg.Endpoints,
// since §6 configures it via the standalone "management" section instead.
const managementEndpointName = "__management__"
