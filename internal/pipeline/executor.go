package pipeline

import (
	"context"
	"log/slog"

	"github.com/aurabx/harmony/internal/backend"
	"github.com/aurabx/harmony/internal/envelope"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/middleware"
)

// Executor implements spec.md §4.D's execute operation. Its return type is
// only a ResponseEnvelope, matching the operation's own signature: every
// component error encountered along the way is converted into a classified
// response before it leaves Execute, never propagated as a Go error.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor builds an Executor logging step-boundary events to logger. A
// nil logger falls back to slog.Default().
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger}
}

// Execute runs req through p's endpoint, middleware, and backend in the
// order §4.D mandates, returning the resulting ResponseEnvelope.
func (e *Executor) Execute(ctx context.Context, req *envelope.RequestEnvelope[[]byte], p *Pipeline) *envelope.ResponseEnvelope[[]byte] {
	requestID := req.RequestDetails.Metadata[envelope.MetaRequestID]
	log := e.logger.With("request_id", requestID, "pipeline", p.Name)

	log.Info("pipeline.preprocess.start")
	preprocessed, err := p.Endpoint.Preprocess(ctx, req)
	if err != nil {
		log.Error("pipeline.preprocess.error", "error", err)
		return e.postprocess(ctx, log, p, req, e.errorResponse(req, 500, err))
	}
	req = preprocessed
	log.Info("pipeline.preprocess.end")

	resp, shortCircuited, runOutgoingOverride, lastShortCircuitIndex := e.runIncoming(ctx, log, req, p)
	if lastShortCircuitIndex >= 0 {
		log.Info("pipeline.short_circuit", "middleware_index", lastShortCircuitIndex)
	}

	if !shortCircuited {
		resp = e.invokeBackend(ctx, log, req, p)
	}

	if !shortCircuited || runOutgoingOverride {
		resp = e.runOutgoing(ctx, log, resp, p)
	}

	return e.postprocess(ctx, log, p, req, resp)
}

func (e *Executor) runIncoming(ctx context.Context, log *slog.Logger, req *envelope.RequestEnvelope[[]byte], p *Pipeline) (resp *envelope.ResponseEnvelope[[]byte], shortCircuited bool, runOutgoingOverride bool, shortCircuitIndex int) {
	shortCircuitIndex = -1
	log.Info("pipeline.incoming.start")
	defer log.Info("pipeline.incoming.end")

	for i, mw := range p.Middleware {
		if !mw.Leg().RunsIncoming() {
			continue
		}
		incoming, ok := mw.(middleware.IncomingMiddleware)
		if !ok {
			continue
		}

		updatedReq, shortResp, err := incoming.ApplyIncoming(ctx, req)
		if err != nil {
			status := 500
			if kind, ok := gwerrors.AsKind(err); ok && kind == gwerrors.KindAuth {
				status = 401
			}
			log.Error("pipeline.incoming.error", "middleware", mw.Name(), "error", err)
			return e.errorResponse(req, status, err), true, false, i
		}
		req = updatedReq

		if shortResp != nil {
			override := shortResp.ResponseDetails.Metadata[envelope.MetaRunOutgoingOnShortCircuit] == "true"
			return shortResp, true, override, i
		}
	}
	return nil, false, false, shortCircuitIndex
}

func (e *Executor) invokeBackend(ctx context.Context, log *slog.Logger, req *envelope.RequestEnvelope[[]byte], p *Pipeline) *envelope.ResponseEnvelope[[]byte] {
	log.Info("pipeline.backend.start")
	defer log.Info("pipeline.backend.end")

	if req.RequestDetails.Metadata[envelope.MetaSkipBackend] == "true" || len(p.Backends) == 0 {
		return backend.NoTargetsResponse(req)
	}

	resp, err := p.Backends[0].Invoke(ctx, req)
	if err != nil {
		log.Error("pipeline.backend.error", "backend", p.Backends[0].Name(), "error", err)
		return e.errorResponse(req, gwerrors.StatusFor(err), err)
	}
	return resp
}

func (e *Executor) runOutgoing(ctx context.Context, log *slog.Logger, resp *envelope.ResponseEnvelope[[]byte], p *Pipeline) *envelope.ResponseEnvelope[[]byte] {
	log.Info("pipeline.outgoing.start")
	defer log.Info("pipeline.outgoing.end")

	for _, mw := range p.Middleware {
		if !mw.Leg().RunsOutgoing() {
			continue
		}
		outgoing, ok := mw.(middleware.OutgoingMiddleware)
		if !ok {
			continue
		}

		updated, err := outgoing.ApplyOutgoing(ctx, resp)
		if err != nil {
			// Right-leg errors are logged only; per §4.D they never change
			// the response status.
			log.Warn("pipeline.outgoing.error", "middleware", mw.Name(), "error", err)
			continue
		}
		resp = updated
	}
	return resp
}

func (e *Executor) postprocess(ctx context.Context, log *slog.Logger, p *Pipeline, req *envelope.RequestEnvelope[[]byte], resp *envelope.ResponseEnvelope[[]byte]) *envelope.ResponseEnvelope[[]byte] {
	log.Info("pipeline.postprocess.start")
	defer log.Info("pipeline.postprocess.end")

	final, err := p.Endpoint.Postprocess(ctx, req, resp)
	if err != nil {
		log.Error("pipeline.postprocess.error", "error", err)
		return e.errorResponse(req, 500, err)
	}
	return final
}

func (e *Executor) errorResponse(req *envelope.RequestEnvelope[[]byte], status int, err error) *envelope.ResponseEnvelope[[]byte] {
	resp := envelope.NewResponseEnvelope[[]byte](status)
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	if kind, ok := gwerrors.AsKind(err); ok {
		resp.ResponseDetails.Metadata[envelope.MetaErrorKind] = string(kind)
	}
	if ge, ok := err.(*gwerrors.GatewayError); ok {
		resp.ResponseDetails.Metadata[envelope.MetaErrorComponent] = ge.Component
	}
	return resp
}
