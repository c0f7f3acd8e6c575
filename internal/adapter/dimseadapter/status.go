package dimseadapter

// StatusForResponse maps a ResponseEnvelope's protocol-neutral HTTP-style
// status onto the DICOM status code a C-FIND/C-MOVE/C-STORE response
// carries back to the calling AE, per spec.md §4.E's mapping table.
func StatusForResponse(status int) uint16 {
	switch {
	case status >= 200 && status <= 299:
		return 0x0000 // Success
	case status == 401 || status == 403:
		return 0xA700 // Refused: Out of Resources / not authorized
	case status == 404:
		return 0xFE00 // Matching terminated due to Cancel, reused here for "no match"
	case status >= 400 && status < 500:
		return 0xA900 // Identifier does not match SOP Class
	case status >= 500:
		return 0xC000 // Unable to process
	default:
		return 0xC000
	}
}
