package gatewayconfig

import "sync"

// builtinMiddlewareKinds are the middleware.<name>.type values spec.md §4.B
// names directly.
var builtinMiddlewareKinds = map[string]bool{
	"basic_auth":         true,
	"jwt_auth":           true,
	"path_filter":        true,
	"json_extractor":     true,
	"transform":          true,
	"metadata_transform": true,
	"dicomweb_bridge":    true,
	"jmix_builder":       true,
}

var (
	externalKindsMu sync.RWMutex
	externalKinds   = map[string]bool{}
)

// RegisterMiddlewareKind extends the set of middleware.<name>.type values
// Validate accepts, for externally-registered kinds per spec.md §4.B's
// "implementations are external collaborators" note. Call during process
// start-up before loading any configuration.
func RegisterMiddlewareKind(kind string) {
	externalKindsMu.Lock()
	defer externalKindsMu.Unlock()
	externalKinds[kind] = true
}

// IsKnownMiddlewareKind reports whether kind is a built-in or registered
// middleware type, per §6's "unknown → fatal" validation invariant.
func IsKnownMiddlewareKind(kind string) bool {
	if builtinMiddlewareKinds[kind] {
		return true
	}
	externalKindsMu.RLock()
	defer externalKindsMu.RUnlock()
	return externalKinds[kind]
}
