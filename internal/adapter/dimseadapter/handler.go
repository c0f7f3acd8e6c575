package dimseadapter

import "context"

// AssociationHandler is invoked by a Transport once per DIMSE operation
// received over an established association. calledAE/callingAE identify
// the association's two endpoints so the handler can route by local AE
// title the way httpadapter routes by path prefix.
type AssociationHandler interface {
	// Echo answers a C-ECHO-RQ without touching any pipeline, per §4.E's
	// "C-ECHO is handled locally" rule. It returns the DICOM status code.
	Echo(ctx context.Context, calledAE, callingAE string) uint16

	// Find answers a C-FIND-RQ. identifier is the encoded query dataset;
	// the returned bytes are the encoded identifier(s) to send back, and
	// the status is the final DICOM status code for the operation.
	Find(ctx context.Context, calledAE, callingAE, queryLevel, messageControlID string, identifier []byte) ([]byte, uint16)

	// Store answers a C-STORE-RQ carrying dataset.
	Store(ctx context.Context, calledAE, callingAE, messageControlID string, dataset []byte) uint16

	// Move answers a C-MOVE-RQ, relaying identifier toward destinationAE.
	Move(ctx context.Context, calledAE, callingAE, destinationAE, queryLevel, messageControlID string, identifier []byte) uint16
}
