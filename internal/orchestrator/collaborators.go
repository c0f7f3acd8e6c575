package orchestrator

import (
	"github.com/aurabx/harmony/internal/adapter/dimseadapter"
	"github.com/aurabx/harmony/internal/backend"
	"github.com/aurabx/harmony/internal/endpoint"
	"github.com/aurabx/harmony/internal/middleware"
)

// Collaborators gathers the external seam implementations spec.md §1 and
// §4 call out as out of scope for the core (JOLT engine, DICOMweb bridge,
// JMIX store, management token exchanger, DIMSE wire transport, DIMSE SCU
// client). A deployment wires concrete implementations of these into the
// Orchestrator; any middleware/backend/endpoint kind that needs one and
// finds it nil fails at build time with a KindConfig error rather than at
// request time.
type Collaborators struct {
	JOLTEngine     middleware.JOLTEngine
	DICOMwebBridge middleware.DICOMwebBridge
	JMIXStore      middleware.JMIXStore
	TokenExchanger endpoint.TokenExchanger
	DIMSEClient    backend.DIMSEClient
	DIMSETransport dimseadapter.Transport
}
