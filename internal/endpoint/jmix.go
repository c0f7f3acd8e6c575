package endpoint

import "github.com/aurabx/harmony/internal/envelope"

// JMIX is the Service for JMIX package endpoints. JMIX requests and cached
// responses are JSON documents; the jmix_builder middleware (not this
// Service) owns the cache lookup/store behavior.
type JMIX struct {
	base
}

// NewJMIX builds a JMIX Service named name.
func NewJMIX(name string) *JMIX {
	return &JMIX{base: base{name: name}}
}

func (s *JMIX) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	return buildHTTPLikeEnvelope(protoCtx, true)
}
