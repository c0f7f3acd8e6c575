package endpoint

import "github.com/aurabx/harmony/internal/envelope"

// Echo is the Service for a minimal diagnostic endpoint: it builds an
// envelope from whichever protocol reached it without assuming an HTTP
// transport, for use alongside the backend.Echo conformance harness.
type Echo struct {
	base
}

// NewEcho builds an Echo Service named name.
func NewEcho(name string) *Echo {
	return &Echo{base: base{name: name}}
}

func (s *Echo) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	if protoCtx.Protocol == envelope.ProtocolHTTP {
		return buildHTTPLikeEnvelope(protoCtx, false)
	}

	req := &envelope.RequestEnvelope[[]byte]{
		RequestDetails: envelope.NewRequestDetails(),
		OriginalData:   protoCtx.Payload,
	}
	requestID := protoCtx.Meta[metaRequestIDCtx]
	if requestID == "" {
		requestID = envelope.NewRequestID()
	}
	req.RequestDetails.Metadata[envelope.MetaRequestID] = requestID
	req.RequestDetails.Metadata[envelope.MetaProtocol] = string(protoCtx.Protocol)
	return req, nil
}
