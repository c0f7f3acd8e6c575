package endpoint

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// Service implements spec.md §4.A's Endpoint Service contract: translating
// a protocol-specific ProtocolCtx into a RequestEnvelope, then shaping the
// RequestEnvelope and ResponseEnvelope on the pre/post legs of a pipeline
// execution. Postprocess also receives the originating RequestEnvelope —
// Management needs the matched route to pick which view to render, a
// detail spec.md leaves to "implementation free".
type Service interface {
	// Name identifies the configured endpoint instance for logging.
	Name() string

	// BuildEnvelope runs once, at the adapter boundary, before any
	// pipeline step. A malformed payload must not fail this call; it
	// yields a RequestEnvelope with no NormalizedData instead, per
	// §4.A's "does not fail envelope construction" rule.
	BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error)

	// Preprocess is the PipelineExecutor's step 1. An error here maps to
	// status 500 regardless of Kind.
	Preprocess(ctx context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], error)

	// Postprocess is the PipelineExecutor's step 5. An error here maps to
	// status 500 regardless of Kind.
	Postprocess(ctx context.Context, req *envelope.RequestEnvelope[[]byte], resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error)
}
