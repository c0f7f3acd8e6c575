package middleware

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// Leg selects which direction of a pipeline execution a middleware
// participates in, per spec §4.B's apply ∈ {left, right, both}.
type Leg string

const (
	LegLeft  Leg = "left"
	LegRight Leg = "right"
	LegBoth  Leg = "both"
)

// RunsIncoming reports whether l includes the left (incoming) leg.
func (l Leg) RunsIncoming() bool { return l == LegLeft || l == LegBoth }

// RunsOutgoing reports whether l includes the right (outgoing) leg.
func (l Leg) RunsOutgoing() bool { return l == LegRight || l == LegBoth }

// Middleware is the minimal contract every pipeline middleware satisfies.
// Name identifies the configured instance (the middleware.<name> key) for
// log attribution and diagnostic short-circuit indexing; Leg reports which
// direction(s) the executor should invoke it on.
type Middleware interface {
	Name() string
	Leg() Leg
}

// IncomingMiddleware is implemented by middleware that runs on the left
// leg. ApplyIncoming may return a rewritten request envelope, or a
// ResponseEnvelope to short-circuit the remainder of the pipeline — the two
// return values are mutually exclusive; the executor treats a non-nil
// ResponseEnvelope as the short-circuit signal regardless of the request
// envelope value.
type IncomingMiddleware interface {
	Middleware
	ApplyIncoming(ctx context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error)
}

// OutgoingMiddleware is implemented by middleware that runs on the right
// leg. An error here is logged by the executor and does not change the
// response status, per §7's "right-side middleware errors do NOT change
// the response status" rule.
type OutgoingMiddleware interface {
	Middleware
	ApplyOutgoing(ctx context.Context, resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error)
}
