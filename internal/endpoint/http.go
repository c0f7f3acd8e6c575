package endpoint

import "github.com/aurabx/harmony/internal/envelope"

// HTTP is the Service for generic HTTP endpoints: JSON is parsed into
// NormalizedData only when the request declares a JSON content type,
// leaving arbitrary binary payloads untouched.
type HTTP struct {
	base
}

// NewHTTP builds an HTTP Service named name.
func NewHTTP(name string) *HTTP {
	return &HTTP{base: base{name: name}}
}

func (s *HTTP) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	return buildHTTPLikeEnvelope(protoCtx, false)
}
