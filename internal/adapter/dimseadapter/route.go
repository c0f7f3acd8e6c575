package dimseadapter

import (
	"fmt"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/pipeline"
)

// Route binds a called AE title to the pipeline that serves it. Unlike
// httpadapter's prefix routing, DICOM associations address a single AE
// title exactly, so matching is by equality, not longest prefix.
type Route struct {
	AETitle  string
	Pipeline *pipeline.Pipeline
}

type routeTable struct {
	byAETitle map[string]*pipeline.Pipeline
}

func newRouteTable(routes []Route) (*routeTable, error) {
	byAETitle := make(map[string]*pipeline.Pipeline, len(routes))
	for _, r := range routes {
		if _, exists := byAETitle[r.AETitle]; exists {
			return nil, gwerrors.New(gwerrors.KindConfig, "dimseadapter", fmt.Sprintf("duplicate ae_title %q", r.AETitle))
		}
		byAETitle[r.AETitle] = r.Pipeline
	}
	return &routeTable{byAETitle: byAETitle}, nil
}

func (t *routeTable) match(calledAE string) (*pipeline.Pipeline, bool) {
	p, ok := t.byAETitle[calledAE]
	return p, ok
}
