// Package middleware implements the gateway's pipeline middleware: the
// cross-cutting steps a Pipeline runs against a protocol-neutral envelope,
// between the Endpoint Service's preprocess/postprocess and the Backend
// invocation.
//
// Unlike internal/httpmw (ambient HTTP concerns wrapping the raw
// *http.Request), a Middleware here operates on an envelope.RequestEnvelope
// or envelope.ResponseEnvelope and therefore runs identically regardless of
// which ProtocolAdapter produced the request.
//
// # Contract
//
// A Middleware always exposes Name and Leg. Whether it participates in the
// incoming (left) or outgoing (right) leg is discovered by the executor via
// two optional interfaces:
//
//   - IncomingMiddleware: ApplyIncoming may rewrite the request envelope, or
//     short-circuit the pipeline by returning a ResponseEnvelope directly.
//   - OutgoingMiddleware: ApplyOutgoing rewrites the response envelope on
//     the way back out.
//
// A middleware may implement both interfaces whatever its Leg; the executor
// calls ApplyIncoming only when Leg.RunsIncoming reports true and
// ApplyOutgoing only when Leg.RunsOutgoing does. Leg is a static, per-instance configuration value — it does not change
// per request, keeping middleware deterministic with respect to its
// configuration and input envelope.
//
// # Built-in kinds
//
// basic_auth, jwt_auth, path_filter, json_extractor, transform (JOLT),
// metadata_transform, dicomweb_bridge, jmix_builder. transform,
// dicomweb_bridge and jmix_builder defer to external collaborator interfaces (JOLTEngine, DICOMwebBridge,
// JMIXStore) — this package only knows how to sequence them, never how a
// JOLT spec or a JMIX package is actually built.
package middleware
