// Package pipeline implements §4.D's PipelineExecutor: the single
// algorithm that every ProtocolAdapter drives to turn a built
// RequestEnvelope into a ResponseEnvelope — endpoint preprocessing, the
// left middleware chain, the backend, the right middleware chain, and
// endpoint postprocessing, in that strict order.
package pipeline
