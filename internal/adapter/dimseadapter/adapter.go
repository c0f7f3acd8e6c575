package dimseadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aurabx/harmony/internal/adapter"
	"github.com/aurabx/harmony/internal/endpoint"
	"github.com/aurabx/harmony/internal/envelope"
	"github.com/aurabx/harmony/internal/pipeline"
)

// Adapter is the DIMSE ProtocolAdapter of §4.E. It routes incoming
// associations by called AE title to a pipeline.Pipeline, serves C-ECHO
// locally, and pipes C-FIND/C-MOVE/C-STORE through a pipeline.Executor.
type Adapter struct {
	name        string
	bindAddress string
	bindPort    uint16
	routes      *routeTable
	executor    *pipeline.Executor
	transport   Transport
	logger      *slog.Logger
}

// Config configures a new Adapter.
type Config struct {
	Name        string
	BindAddress string
	BindPort    uint16
	Routes      []Route
	Executor    *pipeline.Executor
	Transport   Transport
	Logger      *slog.Logger
}

// NewAdapter validates cfg.Routes for colliding ae_titles and builds an
// Adapter. cfg.Transport must be supplied by the caller; there is no
// built-in default (see transport.go).
func NewAdapter(cfg Config) (*Adapter, error) {
	routes, err := newRouteTable(cfg.Routes)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		name:        cfg.Name,
		bindAddress: cfg.BindAddress,
		bindPort:    cfg.BindPort,
		routes:      routes,
		executor:    cfg.Executor,
		transport:   cfg.Transport,
		logger:      logger,
	}, nil
}

func (a *Adapter) Protocol() envelope.Protocol { return envelope.ProtocolDIMSE }

func (a *Adapter) Summary() string {
	return fmt.Sprintf("dimse adapter %q on %s:%d (%d ae titles)", a.name, a.bindAddress, a.bindPort, len(a.routes.byAETitle))
}

// Start launches the transport's accept loop in the background and returns
// once dial readiness can no longer block, mirroring httpadapter.Start's
// "return once bound" contract. The transport itself owns listener binding.
func (a *Adapter) Start(ctx context.Context, shutdown adapter.ShutdownSignal) error {
	if a.transport == nil {
		return fmt.Errorf("dimseadapter %s: no transport configured", a.name)
	}
	addr := fmt.Sprintf("%s:%d", a.bindAddress, a.bindPort)

	serveCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-shutdown.Done()
		cancel()
	}()

	go func() {
		if err := a.transport.Serve(serveCtx, addr, a); err != nil && serveCtx.Err() == nil {
			a.logger.Error("dimseadapter.serve.error", "adapter", a.name, "error", err)
		}
	}()
	return nil
}

func (a *Adapter) Echo(ctx context.Context, calledAE, callingAE string) uint16 {
	a.logger.Info("dimseadapter.echo", "adapter", a.name, "called_ae", calledAE, "calling_ae", callingAE)
	return 0x0000
}

func (a *Adapter) Find(ctx context.Context, calledAE, callingAE, queryLevel, messageControlID string, identifier []byte) ([]byte, uint16) {
	resp, ok := a.invoke(ctx, calledAE, "C-FIND", queryLevel, messageControlID, identifier)
	if !ok {
		return nil, 0xA900
	}
	return resp.OriginalData, StatusForResponse(resp.ResponseDetails.Status)
}

func (a *Adapter) Store(ctx context.Context, calledAE, callingAE, messageControlID string, dataset []byte) uint16 {
	resp, ok := a.invoke(ctx, calledAE, "C-STORE", "", messageControlID, dataset)
	if !ok {
		return 0xA900
	}
	return StatusForResponse(resp.ResponseDetails.Status)
}

func (a *Adapter) Move(ctx context.Context, calledAE, callingAE, destinationAE, queryLevel, messageControlID string, identifier []byte) uint16 {
	p, ok := a.routes.match(calledAE)
	if !ok {
		return 0xA900
	}

	protoCtx := a.buildProtoCtx("C-MOVE", queryLevel, messageControlID, identifier)
	protoCtx.Attrs["destination_ae"] = destinationAE

	req, err := p.Endpoint.BuildEnvelope(protoCtx)
	if err != nil {
		a.logger.Error("dimseadapter.move.build_envelope_error", "adapter", a.name, "error", err)
		return 0xC000
	}
	resp := a.executor.Execute(ctx, req, p)
	return StatusForResponse(resp.ResponseDetails.Status)
}

func (a *Adapter) invoke(ctx context.Context, calledAE, operation, queryLevel, messageControlID string, payload []byte) (*envelope.ResponseEnvelope[[]byte], bool) {
	p, ok := a.routes.match(calledAE)
	if !ok {
		a.logger.Warn("dimseadapter.no_route", "adapter", a.name, "called_ae", calledAE)
		return nil, false
	}

	protoCtx := a.buildProtoCtx(operation, queryLevel, messageControlID, payload)
	req, err := p.Endpoint.BuildEnvelope(protoCtx)
	if err != nil {
		a.logger.Error("dimseadapter.build_envelope_error", "adapter", a.name, "operation", operation, "error", err)
		return nil, false
	}

	return a.executor.Execute(ctx, req, p), true
}

func (a *Adapter) buildProtoCtx(operation, queryLevel, messageControlID string, identifier []byte) *envelope.ProtocolCtx {
	protoCtx := envelope.NewProtocolCtx(envelope.ProtocolDIMSE, identifier)
	protoCtx.Meta[endpoint.MetaOperation] = operation
	if queryLevel != "" {
		protoCtx.Meta[endpoint.MetaQueryLevel] = queryLevel
	}
	if messageControlID != "" {
		protoCtx.Meta[endpoint.MetaMessageControlID] = messageControlID
	}
	if len(identifier) > 0 {
		protoCtx.Attrs[endpoint.AttrIdentifier] = identifier
	}
	return protoCtx
}
