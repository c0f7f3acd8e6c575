package middleware

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// JMIXStore is the external collaborator managing the on-disk JMIX package
// store and index under storage.path (spec.md §5: "single-writer per key,
// readers unrestricted; mediated by the external builder's own transaction
// discipline"). JMIX itself is out of scope (spec.md GLOSSARY); this
// package only sequences lookups and stores against it.
type JMIXStore interface {
	Lookup(key string) (*envelope.ResponseEnvelope[[]byte], bool)
	Store(key string, resp *envelope.ResponseEnvelope[[]byte]) error
}

// JMIXBuilderConfig configures the jmix_builder built-in kind. KeyFunc
// derives the cache key from a request envelope; it must be pure and
// deterministic with respect to the envelope's normalized data.
type JMIXBuilderConfig struct {
	KeyFunc func(*envelope.RequestEnvelope[[]byte]) string
}

const jmixCacheKeyMeta = "jmix.cache_key"

// JMIXBuilder implements the jmix_builder built-in kind: both legs. On the
// incoming leg, a cache hit short-circuits with the stored response. On the
// outgoing leg, a fresh response is stored under the same key for future
// hits.
type JMIXBuilder struct {
	name  string
	cfg   JMIXBuilderConfig
	store JMIXStore
}

// NewJMIXBuilder builds a JMIXBuilder middleware instance named name,
// backed by store.
func NewJMIXBuilder(name string, cfg JMIXBuilderConfig, store JMIXStore) *JMIXBuilder {
	return &JMIXBuilder{name: name, cfg: cfg, store: store}
}

func (m *JMIXBuilder) Name() string { return m.name }
func (m *JMIXBuilder) Leg() Leg     { return LegBoth }

func (m *JMIXBuilder) ApplyIncoming(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.RequestEnvelope[[]byte], *envelope.ResponseEnvelope[[]byte], error) {
	key := m.cfg.KeyFunc(req)
	if cached, ok := m.store.Lookup(key); ok {
		return nil, cached, nil
	}

	req.RequestDetails.Metadata[jmixCacheKeyMeta] = key
	return req, nil, nil
}

func (m *JMIXBuilder) ApplyOutgoing(_ context.Context, resp *envelope.ResponseEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	key := resp.ResponseDetails.Metadata[jmixCacheKeyMeta]
	if key == "" {
		return resp, nil
	}
	_ = m.store.Store(key, resp)
	return resp, nil
}
