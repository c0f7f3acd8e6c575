package dimseadapter

import "context"

// Transport is the association/PDU wire-protocol collaborator: it accepts
// TCP connections, negotiates the association, decodes DIMSE messages off
// the wire, and calls back into an AssociationHandler per operation,
// encoding the handler's result back onto the association.
//
// No library in this project's dependency set exposes this as a
// documented, groundable client/server API: the association state
// machines surveyed for this project expose only unexported internals
// (PDU and DIMSE message primitives visible, no server bootstrap
// entrypoint built on top of them). Rather than fabricate one against an
// undocumented surface, Transport is left as an interface with no
// concrete implementation in this module, mirroring backend.DIMSEClient's
// seam for the same reason.
type Transport interface {
	// Serve accepts associations on addr until ctx is canceled, dispatching
	// every DIMSE operation it decodes to handler. It returns when ctx is
	// canceled or the listener fails.
	Serve(ctx context.Context, addr string, handler AssociationHandler) error
}
