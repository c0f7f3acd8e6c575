package backend

import (
	"context"

	"github.com/aurabx/harmony/internal/envelope"
)

// Echo returns the request's original and normalized data unchanged as a
// 200 response. It exists for conformance testing (spec.md §8 scenario 1's
// "HTTP passthrough echo") and as a harmless default target during pipeline
// development.
type Echo struct {
	name string

	// InvokeCount, when non-nil, is incremented on every Invoke call — a
	// conformance-test hook for asserting a backend was or wasn't called
	// (spec.md §8 scenario 2: "backend not invoked (assertable via echo
	// call count = 0)").
	InvokeCount *int
}

// NewEcho builds an Echo backend named name.
func NewEcho(name string) *Echo {
	return &Echo{name: name}
}

func (b *Echo) Name() string { return b.name }

func (b *Echo) Invoke(_ context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	if b.InvokeCount != nil {
		*b.InvokeCount++
	}

	resp := envelope.NewResponseEnvelope[[]byte](200)
	resp.OriginalData = req.OriginalData
	resp.NormalizedData = req.NormalizedData
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	if contentType, ok := req.RequestDetails.Headers["content-type"]; ok {
		resp.ResponseDetails.Headers["content-type"] = contentType
	}
	return resp, nil
}
