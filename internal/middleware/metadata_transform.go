package middleware

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// MetadataTransformConfig configures the metadata_transform built-in kind:
// a static set/remove over the envelope's metadata map. Set is applied
// before Remove so a key can be renamed by setting the new key and removing
// the old one in the same instance.
type MetadataTransformConfig struct {
	Leg    Leg
	Set    map[string]string
	Remove []string
}

// MetadataTransform implements the metadata_transform built-in kind:
// left, right, or both, no short-circuit condition. Typical use is
// tagging a request with protocol-specific routing hints the adapter
// cannot itself express, e.g. metadata_transform setting dimse_op=C-FIND
// ahead of a DIMSE-to-HTTP bridge pipeline.
type MetadataTransform struct {
	name string
	cfg  MetadataTransformConfig
}

// NewMetadataTransform builds a MetadataTransform middleware instance named
// name.
func NewMetadataTransform(name string, cfg MetadataTransformConfig) *MetadataTransform {
	return &MetadataTransform{name: name, cfg: cfg}
}

func (m *MetadataTransform) Name() string { return m.name }
func (m *MetadataTransform) Leg() Leg     { return m.cfg.Leg }

func (m *MetadataTransform) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	applyMetadata(req.RequestDetails.Metadata, m.cfg)
	return req, nil, nil
}

func (m *MetadataTransform) ApplyOutgoing(_ context.Context, resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	applyMetadata(resp.ResponseDetails.Metadata, m.cfg)
	return resp, nil
}

func applyMetadata(meta map[string]string, cfg MetadataTransformConfig) {
	for k, v := range cfg.Set {
		meta[k] = v
	}
	for _, k := range cfg.Remove {
		delete(meta, k)
	}
}
