package orchestrator

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aurabx/harmony/internal/adapter"
	"github.com/aurabx/harmony/internal/gatewayconfig"
	"github.com/aurabx/harmony/internal/metrics"
	"github.com/aurabx/harmony/internal/pipeline"
	"github.com/aurabx/harmony/internal/resilience"
)

// Orchestrator owns the full lifecycle of one gateway process: resolving
// configuration into pipelines, starting one adapter per network per
// protocol family, and driving the shared shutdown sequence of spec.md §5.
type Orchestrator struct {
	cfg           *gatewayconfig.Config
	collaborators Collaborators
	logger        *slog.Logger
	recorder      metrics.HTTPMetrics
	resilienceCfg resilience.ResilienceConfig
	coordinator   resilience.ShutdownCoordinator
	liveHandler   http.HandlerFunc
	readyHandler  http.HandlerFunc

	adapters []adapter.Adapter
}

// Option configures an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithCollaborators wires the external seam implementations a deployment
// provides (JOLT engine, DICOMweb bridge, JMIX store, token exchanger,
// DIMSE client, DIMSE transport).
func WithCollaborators(c Collaborators) Option {
	return func(o *Orchestrator) { o.collaborators = c }
}

// WithLogger overrides the default slog.Logger every adapter logs through.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder wires a metrics.HTTPMetrics into every HTTP adapter.
func WithMetricsRecorder(recorder metrics.HTTPMetrics) Option {
	return func(o *Orchestrator) { o.recorder = recorder }
}

// WithResilienceConfig overrides the default resilience.ResilienceConfig
// every backend's circuit breaker/retry/timeout/bulkhead wrapper is built
// from.
func WithResilienceConfig(cfg resilience.ResilienceConfig) Option {
	return func(o *Orchestrator) { o.resilienceCfg = cfg }
}

// WithHealthChecks wires the /healthz and /readyz handlers mounted on the
// management network's HTTP adapter. Either may be nil.
func WithHealthChecks(live, ready http.HandlerFunc) Option {
	return func(o *Orchestrator) {
		o.liveHandler = live
		o.readyHandler = ready
	}
}

// New resolves cfg into pipelines and adapters without starting anything.
// A non-nil error is always a *gwerrors.GatewayError of KindConfig, since
// every failure mode at this stage is a configuration problem by
// definition — cfg has already passed gatewayconfig.Config.Validate.
func New(cfg *gatewayconfig.Config, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:           cfg,
		logger:        slog.Default(),
		resilienceCfg: resilience.DefaultResilienceConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.coordinator = resilience.NewShutdownCoordinator(o.resilienceCfg.Shutdown)

	b := newBuilder(cfg, o.collaborators, o.resilienceCfg)
	pipelines, err := b.buildPipelines()
	if err != nil {
		return nil, err
	}

	executor := pipeline.NewExecutor(o.logger)
	adapters, err := buildAdapters(cfg, b, pipelines, adapterDeps{
		executor:     executor,
		coordinator:  o.coordinator,
		recorder:     o.recorder,
		logger:       o.logger,
		transport:    o.collaborators.DIMSETransport,
		liveHandler:  o.liveHandler,
		readyHandler: o.readyHandler,
	})
	if err != nil {
		return nil, err
	}
	o.adapters = adapters

	return o, nil
}

// Run starts every adapter, then blocks until ctx is canceled. On
// cancellation it initiates the shared shutdown sequence: stop accepting
// new requests, wait up to the configured drain period for in-flight
// requests to finish, then broadcast the shutdown signal so each adapter
// closes its listener within its grace period. Run returns once every
// adapter has had the chance to shut down.
//
// Run does not return until every adapter's Start call has completed,
// satisfying §5's "orchestrator must not report ready until every
// adapter's listener is bound" — for httpadapter this is a real guarantee
// (Start binds net.Listen synchronously); for dimseadapter it depends on
// the concrete Transport's own Serve semantics, since Transport is an
// unimplemented wire-protocol seam (see internal/adapter/dimseadapter).
func (o *Orchestrator) Run(ctx context.Context) error {
	signal := newShutdownSignal(int(o.resilienceCfg.Shutdown.GracePeriod.Seconds()))

	for _, a := range o.adapters {
		if err := a.Start(ctx, signal); err != nil {
			return err
		}
		o.logger.Info("orchestrator.adapter.started", "summary", a.Summary())
	}

	<-ctx.Done()
	o.logger.Info("orchestrator.shutdown.initiated")

	o.coordinator.InitiateShutdown()
	if err := o.coordinator.WaitForDrain(context.Background()); err != nil {
		o.logger.Warn("orchestrator.shutdown.drain_incomplete", "error", err)
	}

	signal.broadcast()
	return nil
}

// Adapters returns the adapters New built, for diagnostic inspection
// (e.g. a readiness probe enumerating what is being served).
func (o *Orchestrator) Adapters() []adapter.Adapter {
	return o.adapters
}
