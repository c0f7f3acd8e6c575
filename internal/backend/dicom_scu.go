package backend

import (
	"bytes"
	"context"
	"encoding/json"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// DIMSEClient is the association-level DICOM client a DICOMSCU backend
// sequences calls against. It has no concrete implementation in this
// module: association negotiation and transfer syntax handling belong to
// the DIMSE ProtocolAdapter, and no library in this project's dependency
// set exposes a documented client API to ground one against (see
// internal/adapter/dimseadapter's package doc). Only hand-written test
// fakes satisfy this interface today; this package knows the
// C-FIND/C-STORE/C-MOVE request/response shapes, not how an association
// is negotiated.
type DIMSEClient interface {
	// Find issues a C-FIND against aeTitle with the given identifier
	// document and returns each matching dataset as it arrives.
	Find(ctx context.Context, aeTitle string, identifier map[string]any) ([]map[string]any, error)
	// Store issues a C-STORE of dataset against aeTitle.
	Store(ctx context.Context, aeTitle string, dataset map[string]any) error
	// Move issues a C-MOVE of the identifier's matches from aeTitle to
	// destinationAE.
	Move(ctx context.Context, aeTitle, destinationAE string, identifier map[string]any) error
}

// DICOMSCUConfig configures a DICOMSCU backend.
type DICOMSCUConfig struct {
	// Targets holds the called AE titles to try, first-configured-wins.
	Targets []string
}

// DICOMSCU implements spec.md §4.C's Backend contract for DICOM DIMSE
// targets. A C-FIND response folds every matched dataset into one
// ResponseEnvelope per §4.C's "DICOM C-FIND specifics": original_data
// carries the serialized datasets, metadata["match_count"] their count.
type DICOMSCU struct {
	name   string
	cfg    DICOMSCUConfig
	client DIMSEClient
}

// NewDICOMSCU builds a DICOMSCU backend named name, issuing DIMSE
// operations through client.
func NewDICOMSCU(name string, cfg DICOMSCUConfig, client DIMSEClient) *DICOMSCU {
	return &DICOMSCU{name: name, cfg: cfg, client: client}
}

func (b *DICOMSCU) Name() string { return b.name }

func (b *DICOMSCU) Invoke(ctx context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	if len(b.cfg.Targets) == 0 {
		return nil, gwerrors.New(gwerrors.KindBackendTransport, b.name, "no targets configured")
	}
	aeTitle := b.cfg.Targets[0]

	identifier, _ := req.NormalizedData.(map[string]any)
	op := req.RequestDetails.Metadata[envelope.MetaDimseOp]

	switch op {
	case "C-FIND":
		return b.find(ctx, aeTitle, identifier, req)
	case "C-STORE":
		if err := b.client.Store(ctx, aeTitle, identifier); err != nil {
			return nil, classifyDimseError(b.name, err)
		}
		return successResponse(req), nil
	case "C-MOVE":
		destination := req.RequestDetails.Metadata["dimse_destination_ae"]
		if err := b.client.Move(ctx, aeTitle, destination, identifier); err != nil {
			return nil, classifyDimseError(b.name, err)
		}
		return successResponse(req), nil
	default:
		return nil, gwerrors.New(gwerrors.KindBackendTransport, b.name, "unsupported DIMSE operation: "+op)
	}
}

func (b *DICOMSCU) find(ctx context.Context, aeTitle string, identifier map[string]any, req *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	matches, err := b.client.Find(ctx, aeTitle, identifier)
	if err != nil {
		return nil, classifyDimseError(b.name, err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(matches); err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindInternal, b.name, "failed to serialize C-FIND matches", err)
	}

	resp := envelope.NewResponseEnvelope[[]byte](200)
	resp.OriginalData = buf.Bytes()
	resp.NormalizedData = matches
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	resp.ResponseDetails.Metadata["match_count"] = itoa(len(matches))
	return resp, nil
}

func successResponse(req *envelope.RequestEnvelope[[]byte]) *envelope.ResponseEnvelope[[]byte] {
	resp := envelope.NewResponseEnvelope[[]byte](200)
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	return resp
}

// classifyDimseError maps a DIMSE-level failure onto §4.C's mapping table:
// association rejection and transport errors both surface as
// Backend.Transport; context cancellation/deadline are handled the same as
// the HTTP backend via the caller's context, not here, since DIMSEClient
// implementations are expected to translate those themselves.
func classifyDimseError(component string, err error) error {
	return gwerrors.Wrap(gwerrors.KindBackendTransport, component, "DICOM association or transport failure", err)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := make([]byte, 0, 8)
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
