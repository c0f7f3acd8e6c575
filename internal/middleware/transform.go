package middleware

import (
	"context"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// JOLTEngine applies a declarative JSON-to-JSON transform spec to an input
// document. The engine itself is an external collaborator (spec.md's
// GLOSSARY: "JOLT. A declarative JSON-to-JSON transformation specification")
// — this package only knows how to sequence a call to it within a pipeline.
type JOLTEngine interface {
	Transform(spec []byte, input any) (any, error)
}

// TransformConfig configures the transform (JOLT) built-in kind.
type TransformConfig struct {
	// Spec is the JOLT specification document, opaque to this package.
	Spec []byte
	// Leg selects left, right, or both per §4.B's "transform (JOLT)" row.
	Leg Leg
	// FailOnError makes an engine error on the incoming leg a Transform
	// error that terminates the pipeline, instead of passing the request
	// through unchanged. On the outgoing leg an engine error is always
	// returned, with the response unchanged, whatever FailOnError says.
	FailOnError bool
}

// Transform implements the transform (JOLT) built-in kind by delegating to
// a JOLTEngine.
type Transform struct {
	name   string
	cfg    TransformConfig
	engine JOLTEngine
}

// NewTransform builds a Transform middleware instance named name, applying
// spec documents through engine.
func NewTransform(name string, cfg TransformConfig, engine JOLTEngine) *Transform {
	return &Transform{name: name, cfg: cfg, engine: engine}
}

func (m *Transform) Name() string { return m.name }
func (m *Transform) Leg() Leg     { return m.cfg.Leg }

func (m *Transform) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	req.SnapshotNormalized()

	out, err := m.engine.Transform(m.cfg.Spec, req.NormalizedData)
	if err != nil {
		if m.cfg.FailOnError {
			return nil, nil, gwerrors.Wrap(gwerrors.KindTransform, m.name, "JOLT transform failed", err)
		}
		return req, nil, nil
	}

	req.NormalizedData = out
	return req, nil, nil
}

func (m *Transform) ApplyOutgoing(_ context.Context, resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	out, err := m.engine.Transform(m.cfg.Spec, resp.NormalizedData)
	if err != nil {
		return resp, gwerrors.Wrap(gwerrors.KindTransform, m.name, "JOLT transform failed", err)
	}

	resp.NormalizedData = out
	return resp, nil
}
