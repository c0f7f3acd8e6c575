// Package gatewayconfig parses and validates the gateway topology
// configuration document described in spec.md §6: networks, the
// management API, and the pipelines/endpoints/middleware/backends that
// define request handling. The canonical format is TOML
// (github.com/BurntSushi/toml); the schema itself does not depend on TOML
// specifically.
//
// Validation runs in two passes: struct-tag validation
// (github.com/go-playground/validator/v10) catches per-field invariants
// (non-zero ports, required strings), then a hand-written cross-referential
// pass resolves every name reference a pipeline makes into its declared
// networks/endpoints/middleware/backends and checks for route-prefix and
// AE-title collisions — invariants no struct tag can express.
//
// This is deliberately a different config layer from internal/config
// (process bootstrap via environment variables): gatewayconfig is the
// document an operator hands to the CLI's --config flag, re-loadable
// independent of how the process itself was started.
package gatewayconfig
