package pipeline_test

import (
	"context"
	"testing"

	"github.com/aurabx/harmony/internal/backend"
	"github.com/aurabx/harmony/internal/envelope"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/middleware"
	"github.com/aurabx/harmony/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughEndpoint struct {
	name           string
	preprocessErr  error
	postprocessErr error
}

func (e *passthroughEndpoint) Name() string { return e.name }
func (e *passthroughEndpoint) BuildEnvelope(*envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	return nil, nil
}
func (e *passthroughEndpoint) Preprocess(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], error) {
	if e.preprocessErr != nil {
		return nil, e.preprocessErr
	}
	return req, nil
}
func (e *passthroughEndpoint) Postprocess(_ context.Context, _ *envelope.RequestEnvelope[[]byte], resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	if e.postprocessErr != nil {
		return nil, e.postprocessErr
	}
	return resp, nil
}

type fakeIncoming struct {
	name      string
	leg       middleware.Leg
	shortResp *envelope.ResponseEnvelope[[]byte]
	err       error
	tagKey    string
}

func (m *fakeIncoming) Name() string       { return m.name }
func (m *fakeIncoming) Leg() middleware.Leg { return m.leg }
func (m *fakeIncoming) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	if m.shortResp != nil {
		return req, m.shortResp, nil
	}
	if m.tagKey != "" {
		req.RequestDetails.Metadata[m.tagKey] = "applied"
	}
	return req, nil, nil
}

type fakeOutgoing struct {
	name    string
	leg     middleware.Leg
	tagKey  string
	called  *int
	err     error
}

func (m *fakeOutgoing) Name() string        { return m.name }
func (m *fakeOutgoing) Leg() middleware.Leg { return m.leg }
func (m *fakeOutgoing) ApplyOutgoing(_ context.Context, resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	if m.called != nil {
		*m.called++
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.tagKey != "" {
		resp.ResponseDetails.Metadata[m.tagKey] = "applied"
	}
	return resp, nil
}

func newRequest() *envelope.RequestEnvelope[[]byte] {
	req := &envelope.RequestEnvelope[[]byte]{RequestDetails: envelope.NewRequestDetails()}
	req.RequestDetails.Metadata[envelope.MetaRequestID] = "req-1"
	return req
}

func TestExecutor_HappyPathRunsEveryStepInOrder(t *testing.T) {
	outgoingCalled := 0
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Middleware: []middleware.Middleware{
			&fakeIncoming{name: "tag-in", leg: middleware.LegLeft, tagKey: "incoming_tag"},
			&fakeOutgoing{name: "tag-out", leg: middleware.LegRight, tagKey: "outgoing_tag", called: &outgoingCalled},
		},
		Backends: []backend.Backend{backend.NewEcho("orders-echo")},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 200, resp.ResponseDetails.Status)
	assert.Equal(t, "applied", resp.ResponseDetails.Metadata["outgoing_tag"])
	assert.Equal(t, 1, outgoingCalled)
}

func TestExecutor_ShortCircuitSkipsBackendAndOutgoingByDefault(t *testing.T) {
	outgoingCalled := 0
	invokeCount := 0
	echo := backend.NewEcho("orders-echo")
	echo.InvokeCount = &invokeCount

	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Middleware: []middleware.Middleware{
			&fakeIncoming{name: "filter", leg: middleware.LegLeft, shortResp: envelope.NewResponseEnvelope[[]byte](404)},
			&fakeOutgoing{name: "tag-out", leg: middleware.LegRight, called: &outgoingCalled},
		},
		Backends: []backend.Backend{echo},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 404, resp.ResponseDetails.Status)
	assert.Equal(t, 0, invokeCount)
	assert.Equal(t, 0, outgoingCalled)
}

func TestExecutor_ShortCircuitRunsOutgoingWhenOverrideFlagSet(t *testing.T) {
	outgoingCalled := 0
	shortResp := envelope.NewResponseEnvelope[[]byte](404)
	shortResp.ResponseDetails.Metadata[envelope.MetaRunOutgoingOnShortCircuit] = "true"

	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Middleware: []middleware.Middleware{
			&fakeIncoming{name: "filter", leg: middleware.LegLeft, shortResp: shortResp},
			&fakeOutgoing{name: "tag-out", leg: middleware.LegRight, called: &outgoingCalled},
		},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 404, resp.ResponseDetails.Status)
	assert.Equal(t, 1, outgoingCalled)
}

func TestExecutor_IncomingAuthErrorMapsTo401(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Middleware: []middleware.Middleware{
			&fakeIncoming{name: "jwt", leg: middleware.LegLeft, err: gwerrors.New(gwerrors.KindAuth, "jwt", "expired")},
		},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 401, resp.ResponseDetails.Status)
	assert.Equal(t, string(gwerrors.KindAuth), resp.ResponseDetails.Metadata[envelope.MetaErrorKind])
}

func TestExecutor_IncomingNonAuthErrorMapsTo500(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Middleware: []middleware.Middleware{
			&fakeIncoming{name: "transform", leg: middleware.LegLeft, err: gwerrors.New(gwerrors.KindTransform, "transform", "bad doc")},
		},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 500, resp.ResponseDetails.Status)
}

type failingBackend struct{ err error }

func (b *failingBackend) Name() string { return "failing" }
func (b *failingBackend) Invoke(context.Context, *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	return nil, b.err
}

func TestExecutor_BackendTransportErrorMapsTo502(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Backends: []backend.Backend{&failingBackend{err: gwerrors.New(gwerrors.KindBackendTransport, "http", "unreachable")}},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 502, resp.ResponseDetails.Status)
}

func TestExecutor_NoBackendsConfiguredReturnsEmpty200(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 200, resp.ResponseDetails.Status)
}

func TestExecutor_PostprocessErrorMapsTo500(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http", postprocessErr: gwerrors.New(gwerrors.KindInternal, "http", "boom")},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 500, resp.ResponseDetails.Status)
}

func TestExecutor_PreprocessErrorMapsTo500(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http", preprocessErr: gwerrors.New(gwerrors.KindInternal, "http", "boom")},
	}

	resp := pipeline.NewExecutor(nil).Execute(context.Background(), newRequest(), p)

	assert.Equal(t, 500, resp.ResponseDetails.Status)
}

func TestExecutor_PropagatesRequestIDUnchanged(t *testing.T) {
	p := &pipeline.Pipeline{
		Name:     "orders",
		Endpoint: &passthroughEndpoint{name: "http"},
		Backends: []backend.Backend{backend.NewEcho("orders-echo")},
	}

	req := newRequest()
	resp := pipeline.NewExecutor(nil).Execute(context.Background(), req, p)

	require.Equal(t, "req-1", resp.ResponseDetails.Metadata[envelope.MetaRequestID])
}
