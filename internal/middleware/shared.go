package middleware

import (
	"net/http"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// shortCircuit builds the ResponseEnvelope a left-leg middleware returns to
// end the pipeline early, carrying the request id forward and recording
// which component and Kind produced it for log attribution.
func shortCircuit(req *envelope.RequestEnvelope[[]byte], status int, kind gwerrors.Kind, component string) *envelope.ResponseEnvelope[[]byte] {
	resp := envelope.NewResponseEnvelope[[]byte](status)
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	resp.ResponseDetails.Metadata[envelope.MetaErrorKind] = string(kind)
	resp.ResponseDetails.Metadata[envelope.MetaErrorComponent] = component
	return resp
}

// unauthorized builds the standard 401 short-circuit response shared by
// basic_auth and jwt_auth. Per §7, no detail about the failure is exposed.
func unauthorized(req *envelope.RequestEnvelope[[]byte], component string) *envelope.ResponseEnvelope[[]byte] {
	return shortCircuit(req, http.StatusUnauthorized, gwerrors.KindAuth, component)
}
