package pipeline

import (
	"github.com/aurabx/harmony/internal/backend"
	"github.com/aurabx/harmony/internal/endpoint"
	"github.com/aurabx/harmony/internal/middleware"
)

// Pipeline is spec.md §3's Pipeline configuration entity, resolved: its
// endpoint, middleware, and backends are the live objects gatewayconfig's
// references name, not strings. It is constructed once at start-up and
// never mutated.
type Pipeline struct {
	Name       string
	Endpoint   endpoint.Service
	Middleware []middleware.Middleware
	Backends   []backend.Backend
}
