package endpoint

import "github.com/aurabx/harmony/internal/envelope"

// Conventional ProtocolCtx.Meta keys for DIMSE operations, per §3.
const (
	MetaOperation        = "operation"
	MetaQueryLevel       = "query_level"
	MetaMessageControlID = "message_control_id"
)

// AttrIdentifier is the ProtocolCtx.Attrs key a DIMSE adapter uses to carry
// the C-FIND/C-MOVE/C-STORE identifier document (DICOM tag to value).
const AttrIdentifier = "identifier"

// DICOM is the Service for DIMSE endpoints. It synthesizes a pseudo-URI
// from the operation name and carries the identifier document as
// NormalizedData, per §4.A's "identifier document is synthesized from
// ctx.attrs" rule for C-FIND.
type DICOM struct {
	base
}

// NewDICOM builds a DICOM Service named name.
func NewDICOM(name string) *DICOM {
	return &DICOM{base: base{name: name}}
}

func (s *DICOM) BuildEnvelope(protoCtx *envelope.ProtocolCtx) (*envelope.RequestEnvelope[[]byte], error) {
	req := &envelope.RequestEnvelope[[]byte]{
		RequestDetails: envelope.NewRequestDetails(),
		OriginalData:   protoCtx.Payload,
	}

	operation := protoCtx.Meta[MetaOperation]
	req.RequestDetails.Method = operation
	req.RequestDetails.URI = "dicom://" + operation

	requestID := protoCtx.Meta[metaRequestIDCtx]
	if requestID == "" {
		requestID = envelope.NewRequestID()
	}
	req.RequestDetails.Metadata[envelope.MetaRequestID] = requestID
	req.RequestDetails.Metadata[envelope.MetaProtocol] = string(protoCtx.Protocol)
	req.RequestDetails.Metadata[envelope.MetaDimseOp] = operation
	if queryLevel := protoCtx.Meta[MetaQueryLevel]; queryLevel != "" {
		req.RequestDetails.Metadata[MetaQueryLevel] = queryLevel
	}
	if controlID := protoCtx.Meta[MetaMessageControlID]; controlID != "" {
		req.RequestDetails.Metadata[MetaMessageControlID] = controlID
	}
	// C-MOVE destination, read by the DICOM SCU backend.
	if destination, ok := protoCtx.Attrs["destination_ae"].(string); ok && destination != "" {
		req.RequestDetails.Metadata["dimse_destination_ae"] = destination
	}

	if identifier, ok := protoCtx.Attrs[AttrIdentifier]; ok {
		req.NormalizedData = identifier
	}

	return req, nil
}
