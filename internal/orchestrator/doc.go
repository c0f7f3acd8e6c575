// Package orchestrator turns a parsed gatewayconfig.Config into a running
// gateway: it resolves every pipeline's endpoint/middleware/backend name
// references into live objects, groups endpoints by network into one HTTP
// ProtocolAdapter and/or one DIMSE ProtocolAdapter per network, starts
// them, and drives the shared shutdown sequence of spec.md §5 — a single
// cancellation signal, a drain period for in-flight requests, and a grace
// period per adapter before the process exits.
package orchestrator
