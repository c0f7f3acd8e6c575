package endpoint

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// base gives every concrete Service a name and pass-through Preprocess/
// Postprocess; implementations override what they need and embed base for
// the rest, following the teacher's embedding-over-inheritance convention.
type base struct {
	name string
}

func (b base) Name() string { return b.name }

func (b base) Preprocess(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], error) {
	return req, nil
}

func (b base) Postprocess(_ context.Context, _ *envelope.RequestEnvelope[[]byte], resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	return resp, nil
}
