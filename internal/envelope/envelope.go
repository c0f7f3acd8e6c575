// Package envelope defines the protocol-neutral data carriers that let
// middleware written once operate uniformly over HTTP, DIMSE, and
// DICOMweb payloads: ProtocolCtx, RequestEnvelope, and ResponseEnvelope.
package envelope

import "github.com/google/uuid"

// NewRequestID generates a fresh request identifier for an envelope that
// arrived without one, per §3's "freshly generated unique id if none
// supplied" rule.
func NewRequestID() string {
	return uuid.NewString()
}

// Protocol identifies the wire protocol that produced a ProtocolCtx.
type Protocol string

const (
	ProtocolHTTP Protocol = "http"
	ProtocolDIMSE Protocol = "dimse"
	ProtocolHL7   Protocol = "hl7"
)

// CustomProtocol builds a Protocol value for an extensible, non-built-in
// wire protocol, per the CUSTOM(name) variant.
func CustomProtocol(name string) Protocol {
	return Protocol("custom:" + name)
}

// Reserved metadata keys, visible to every middleware and the backend
// selector once set.
const (
	MetaRequestID   = "request_id"
	MetaProtocol    = "protocol"
	MetaDimseOp     = "dimse_op"
	MetaSkipBackend = "skip_backends"
	// MetaRunOutgoingOnShortCircuit, when set to "true" by a short-circuiting
	// left-leg middleware, tells the executor to still run the right-leg
	// middleware chain over the short-circuit response, per §4.B.
	MetaRunOutgoingOnShortCircuit = "run_outgoing_on_short_circuit"
	// MetaErrorKind and MetaErrorComponent record, on a short-circuit or
	// passthrough error response, which Kind and component produced it —
	// for diagnostic attribution, never for client-facing detail.
	MetaErrorKind      = "error_kind"
	MetaErrorComponent = "error_component"
)

// ProtocolCtx is the protocol-specific context an adapter hands to the
// endpoint service before any envelope exists.
type ProtocolCtx struct {
	Protocol Protocol
	Payload  []byte
	Meta     map[string]string
	Attrs    map[string]any
}

// NewProtocolCtx builds a ProtocolCtx with initialized maps.
func NewProtocolCtx(protocol Protocol, payload []byte) *ProtocolCtx {
	return &ProtocolCtx{
		Protocol: protocol,
		Payload:  payload,
		Meta:     make(map[string]string),
		Attrs:    make(map[string]any),
	}
}

// RequestDetails carries the protocol-neutral request-shaped fields every
// Endpoint Service populates from its own ProtocolCtx.
type RequestDetails struct {
	Method      string
	URI         string
	Headers     map[string]string
	Cookies     map[string]string
	QueryParams map[string][]string
	CacheStatus string
	Metadata    map[string]string
}

// NewRequestDetails returns a RequestDetails with initialized maps.
func NewRequestDetails() RequestDetails {
	return RequestDetails{
		Headers:     make(map[string]string),
		Cookies:     make(map[string]string),
		QueryParams: make(map[string][]string),
		Metadata:    make(map[string]string),
	}
}

// RequestEnvelope is the protocol-neutral inbound carrier for a payload of
// type T. T is commonly []byte; backends needing a richer intermediate
// representation (a parsed DICOM dataset) carry it here and tag its shape
// via Metadata["content-kind"].
type RequestEnvelope[T any] struct {
	RequestDetails     RequestDetails
	OriginalData       T
	NormalizedData     any
	NormalizedSnapshot any
}

// SnapshotNormalized copies NormalizedData into NormalizedSnapshot iff no
// snapshot has been taken yet for this envelope's execution. Middleware
// must call this before their first mutation of NormalizedData; later
// calls are no-ops, preserving the "value before the first transform"
// invariant.
func (e *RequestEnvelope[T]) SnapshotNormalized() {
	if e.NormalizedSnapshot == nil && e.NormalizedData != nil {
		e.NormalizedSnapshot = e.NormalizedData
	}
}

// ResponseDetails carries the protocol-neutral response-shaped fields.
type ResponseDetails struct {
	Status   int
	Headers  map[string]string
	Metadata map[string]string
}

// NewResponseDetails returns a ResponseDetails with initialized maps.
func NewResponseDetails() ResponseDetails {
	return ResponseDetails{
		Headers:  make(map[string]string),
		Metadata: make(map[string]string),
	}
}

// ResponseEnvelope is the protocol-neutral outbound carrier for a payload
// of type T.
type ResponseEnvelope[T any] struct {
	ResponseDetails ResponseDetails
	OriginalData    T
	NormalizedData  any
}

// NewResponseEnvelope builds a ResponseEnvelope with the given status and
// zero-value payload.
func NewResponseEnvelope[T any](status int) *ResponseEnvelope[T] {
	return &ResponseEnvelope[T]{
		ResponseDetails: ResponseDetails{
			Status:   status,
			Headers:  make(map[string]string),
			Metadata: make(map[string]string),
		},
	}
}

// ValidStatus reports whether status is in the HTTP-style 100-599 range
// mandated for every ResponseEnvelope.
func ValidStatus(status int) bool {
	return status >= 100 && status <= 599
}
