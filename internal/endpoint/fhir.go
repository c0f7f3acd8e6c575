package endpoint

import "github.com/aurabx/harmony/internal/envelope"

// FHIR is the Service for FHIR REST endpoints. FHIR resources are always
// JSON over HTTP, so NormalizedData is always populated when the payload
// parses.
type FHIR struct {
	base
}

// NewFHIR builds a FHIR Service named name.
func NewFHIR(name string) *FHIR {
	return &FHIR{base: base{name: name}}
}

func (s *FHIR) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	return buildHTTPLikeEnvelope(protoCtx, true)
}
