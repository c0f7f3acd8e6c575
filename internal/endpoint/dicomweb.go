package endpoint

import "github.com/aurabx/harmony/internal/envelope"

// DICOMweb is a thin passthrough Service: it builds a RequestEnvelope from
// the HTTP-transported QIDO/WADO request and returns it unmodified, leaving
// QIDO-RS/WADO-RS semantics to the dicomweb_bridge middleware, per the
// open-question decision to treat that translation as an external
// collaborator rather than core Endpoint Service logic.
type DICOMweb struct {
	base
}

// NewDICOMweb builds a DICOMweb Service named name.
func NewDICOMweb(name string) *DICOMweb {
	return &DICOMweb{base: base{name: name}}
}

func (s *DICOMweb) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	return buildHTTPLikeEnvelope(protoCtx, true)
}
