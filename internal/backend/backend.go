package backend

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// Backend implements spec.md §4.C's invoke operation: select a target,
// serialize req onto the wire, issue the call, and return a
// ResponseEnvelope.
type Backend interface {
	Name() string
	Invoke(ctx context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error)
}

// NoTargetsResponse synthesizes the empty 200 response §4.C mandates when a
// pipeline lists zero backends and no middleware short-circuited.
func NoTargetsResponse(req *envelope.RequestEnvelope[[]byte]) *envelope.ResponseEnvelope[[]byte] {
	resp := envelope.NewResponseEnvelope[[]byte](200)
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	return resp
}
