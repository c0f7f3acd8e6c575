// Package endpoint implements the Endpoint Service contract of §4.A:
// translating a protocol-specific ProtocolCtx into a protocol-neutral
// RequestEnvelope, and shaping a ResponseEnvelope back before it returns
// to the adapter. Each configured endpoint names a Service kind (HTTP,
// FHIR, JMIX, DICOMweb, DICOM, Echo, Management); internal/orchestrator's
// buildEndpoint builds the matching implementation from an EndpointConfig.
package endpoint
