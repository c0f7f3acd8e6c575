package middleware

import (
	"context"
	"encoding/json"
	"strings"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// JSONExtractorConfig configures the json_extractor built-in kind. Path, if
// non-empty, is a dot-separated walk into the parsed document (e.g.
// "entry.0.resource"); empty means the whole document.
type JSONExtractorConfig struct {
	Path string
	// FailOnError reports a Transform error instead of passing the request
	// through unchanged when the payload isn't valid JSON or Path doesn't
	// resolve.
	FailOnError bool
}

// JSONExtractor implements the json_extractor built-in kind: left leg only,
// no short-circuit condition. It ensures normalized_data is populated from
// original_data (taking a snapshot first, per the envelope's "value before
// the first transform" invariant), optionally narrowed to Path.
type JSONExtractor struct {
	name string
	cfg  JSONExtractorConfig
}

// NewJSONExtractor builds a JSONExtractor middleware instance named name.
func NewJSONExtractor(name string, cfg JSONExtractorConfig) *JSONExtractor {
	return &JSONExtractor{name: name, cfg: cfg}
}

func (m *JSONExtractor) Name() string { return m.name }
func (m *JSONExtractor) Leg() Leg     { return LegLeft }

func (m *JSONExtractor) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	req.SnapshotNormalized()

	doc := req.NormalizedData
	if doc == nil {
		if err := json.Unmarshal(req.OriginalData, &doc); err != nil {
			if m.cfg.FailOnError {
				return nil, nil, gwerrors.Wrap(gwerrors.KindTransform, m.name, "invalid JSON payload", err)
			}
			return req, nil, nil
		}
	}

	if m.cfg.Path != "" {
		extracted, ok := extractPath(doc, m.cfg.Path)
		if !ok {
			if m.cfg.FailOnError {
				return nil, nil, gwerrors.New(gwerrors.KindTransform, m.name, "path not found: "+m.cfg.Path)
			}
			return req, nil, nil
		}
		doc = extracted
	}

	req.NormalizedData = doc
	return req, nil, nil
}

// extractPath walks a dot-separated path through a JSON-decoded document of
// maps, slices, and scalars.
func extractPath(doc any, path string) (any, bool) {
	current := doc
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx := 0
			if _, err := parseIndex(segment, &idx); err != nil {
				return nil, false
			}
			if idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func parseIndex(s string, out *int) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, gwerrors.New(gwerrors.KindTransform, "json_extractor", "non-numeric path segment: "+s)
		}
		n = n*10 + int(r-'0')
	}
	*out = n
	return n, nil
}
