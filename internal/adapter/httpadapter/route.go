package httpadapter

import (
	"sort"
	"strings"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/pipeline"
)

// Route binds a path_prefix to the pipeline that serves it.
type Route struct {
	PathPrefix string
	Pipeline   *pipeline.Pipeline
}

// routeTable resolves a request path to a Route by longest-prefix match,
// per §4.E: "matches configured endpoint path_prefixes (longest-match
// wins; conflicts fail at startup, not at request time)".
type routeTable struct {
	routes []Route // sorted by PathPrefix length, descending
}

func newRouteTable(routes []Route) (*routeTable, error) {
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if seen[r.PathPrefix] {
			return nil, gwerrors.New(gwerrors.KindConfig, "httpadapter", "duplicate path_prefix: "+r.PathPrefix)
		}
		seen[r.PathPrefix] = true
	}

	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].PathPrefix) > len(sorted[j].PathPrefix)
	})
	return &routeTable{routes: sorted}, nil
}

func (t *routeTable) match(path string) (*Route, bool) {
	for i := range t.routes {
		if strings.HasPrefix(path, t.routes[i].PathPrefix) {
			return &t.routes[i], true
		}
	}
	return nil, false
}
