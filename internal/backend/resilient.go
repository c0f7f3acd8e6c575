package backend

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
	"github.com/aurabx/harmony/internal/resilience"
)

// Resilient wraps a Backend with a resilience.ResilienceWrapper, composing
// circuit breaker, retry, timeout, and bulkhead protection around Invoke
// per doc.go's "every concrete Backend is ordinarily wrapped" contract.
type Resilient struct {
	inner   Backend
	wrapper resilience.ResilienceWrapper
}

// NewResilient wraps inner with wrapper. Invoke calls inner.Invoke through
// wrapper.Execute, using inner.Name() for circuit breaker identification.
func NewResilient(inner Backend, wrapper resilience.ResilienceWrapper) *Resilient {
	return &Resilient{inner: inner, wrapper: wrapper}
}

func (b *Resilient) Name() string { return b.inner.Name() }

func (b *Resilient) Invoke(ctx context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	var resp *envelope.ResponseEnvelope[[]byte]
	err := b.wrapper.Execute(ctx, b.inner.Name(), func(ctx context.Context) error {
		var invokeErr error
		resp, invokeErr = b.inner.Invoke(ctx, req)
		return invokeErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
