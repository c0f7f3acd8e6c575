package endpoint

import (
	"encoding/json"
	"strings"

	"github.com/aurabx/harmony/internal/envelope"
)

// Attribute keys an HTTP-family ProtocolCtx carries in Attrs, populated by
// the HTTP ProtocolAdapter per §4.E ("attrs containing method, path, query,
// headers"). Declared here, not in the adapter, so both sides agree on the
// contract without an import cycle.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrQuery   = "query"
	AttrHeaders = "headers"
	AttrCookies = "cookies"
)

const metaRequestIDCtx = "request_id"

// buildHTTPLikeEnvelope implements §4.A's build_protocol_envelope for every
// HTTP-transported endpoint kind (HTTP, FHIR, JMIX, DICOMweb). forceJSON
// parses the payload as JSON regardless of declared content type, for
// endpoint kinds whose wire format is always JSON over HTTP.
func buildHTTPLikeEnvelope(protoCtx *envelope.ProtocolCtx, forceJSON bool) (*envelope.RequestEnvelope[[]byte], error) {
	req := &envelope.RequestEnvelope[[]byte]{
		RequestDetails: envelope.NewRequestDetails(),
		OriginalData:   protoCtx.Payload,
	}

	if method, ok := protoCtx.Attrs[AttrMethod].(string); ok {
		req.RequestDetails.Method = method
	}
	if path, ok := protoCtx.Attrs[AttrPath].(string); ok {
		req.RequestDetails.URI = path
	}
	if headers, ok := protoCtx.Attrs[AttrHeaders].(map[string]string); ok {
		for k, v := range headers {
			req.RequestDetails.Headers[strings.ToLower(k)] = v
		}
	}
	if cookies, ok := protoCtx.Attrs[AttrCookies].(map[string]string); ok {
		for k, v := range cookies {
			req.RequestDetails.Cookies[k] = v
		}
	}
	if query, ok := protoCtx.Attrs[AttrQuery].(map[string][]string); ok {
		for k, v := range query {
			req.RequestDetails.QueryParams[k] = v
		}
	}

	requestID := protoCtx.Meta[metaRequestIDCtx]
	if requestID == "" {
		requestID = envelope.NewRequestID()
	}
	req.RequestDetails.Metadata[envelope.MetaRequestID] = requestID
	req.RequestDetails.Metadata[envelope.MetaProtocol] = string(protoCtx.Protocol)

	if forceJSON || isJSONContentType(req.RequestDetails.Headers["content-type"]) {
		var doc any
		if err := json.Unmarshal(protoCtx.Payload, &doc); err == nil {
			req.NormalizedData = doc
		}
		// A malformed payload leaves NormalizedData unset, per §4.A: envelope
		// construction never fails on this, only middleware that requires it.
	}

	return req, nil
}

func isJSONContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "json")
}
