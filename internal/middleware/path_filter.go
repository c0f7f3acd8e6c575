package middleware

import (
	"context"
	"net/http"
	"strings"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// PathFilterConfig lists the URI prefixes allowed through. An empty Rules
// set allows nothing through (every request 404s) rather than everything,
// since an unconfigured filter is almost certainly a configuration mistake.
type PathFilterConfig struct {
	Rules []string
}

// PathFilter implements the path_filter built-in kind: left leg only. When
// no rule matches, it short-circuits with 404 and sets skip_backends so the
// executor does not invoke a backend for a request the filter rejected.
type PathFilter struct {
	name string
	cfg  PathFilterConfig
}

// NewPathFilter builds a PathFilter middleware instance named name.
func NewPathFilter(name string, cfg PathFilterConfig) *PathFilter {
	return &PathFilter{name: name, cfg: cfg}
}

func (m *PathFilter) Name() string { return m.name }
func (m *PathFilter) Leg() Leg     { return LegLeft }

func (m *PathFilter) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	for _, rule := range m.cfg.Rules {
		if strings.HasPrefix(req.RequestDetails.URI, rule) {
			return req, nil, nil
		}
	}

	resp := shortCircuit(req, http.StatusNotFound, gwerrors.KindNotFound, m.name)
	resp.ResponseDetails.Metadata[envelope.MetaSkipBackend] = "true"
	return nil, resp, nil
}
