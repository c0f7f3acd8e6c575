package middleware

import (
	"context"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// DICOMwebBridge converts between DICOMweb JSON documents and DIMSE
// identifier documents. The conversion itself is an external collaborator
// per spec.md §1 ("external DICOMweb/DIMSE bridge middleware spec"); this
// package only sequences calls to it on both legs of a pipeline.
type DICOMwebBridge interface {
	// ToDimse converts a DICOMweb-shaped normalized document into a DIMSE
	// identifier document, on the incoming leg.
	ToDimse(normalized any) (any, error)
	// ToDicomweb converts a DIMSE-shaped normalized document into a
	// DICOMweb JSON document, on the outgoing leg.
	ToDicomweb(normalized any) (any, error)
}

// DicomwebBridge implements the dicomweb_bridge built-in kind: both legs,
// no short-circuit condition.
type DicomwebBridge struct {
	name   string
	bridge DICOMwebBridge
}

// NewDicomwebBridge builds a DicomwebBridge middleware instance named name,
// delegating conversions to bridge.
func NewDicomwebBridge(name string, bridge DICOMwebBridge) *DicomwebBridge {
	return &DicomwebBridge{name: name, bridge: bridge}
}

func (m *DicomwebBridge) Name() string { return m.name }
func (m *DicomwebBridge) Leg() Leg     { return LegBoth }

func (m *DicomwebBridge) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	out, err := m.bridge.ToDimse(req.NormalizedData)
	if err != nil {
		return nil, nil, gwerrors.Wrap(gwerrors.KindTransform, m.name, "dicomweb to dimse conversion failed", err)
	}
	req.NormalizedData = out
	return req, nil, nil
}

func (m *DicomwebBridge) ApplyOutgoing(_ context.Context, resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	out, err := m.bridge.ToDicomweb(resp.NormalizedData)
	if err != nil {
		return resp, gwerrors.Wrap(gwerrors.KindTransform, m.name, "dimse to dicomweb conversion failed", err)
	}
	resp.NormalizedData = out
	return resp, nil
}
