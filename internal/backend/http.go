package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/envelope"
)

// HTTPConfig configures an HTTP backend. Targets are tried in declared
// order; only the first is invoked, per §4.C's first-configured-wins
// discipline — the rest are kept for the reserved fan-out extension.
type HTTPConfig struct {
	Targets []string
	Method  string // overrides req's method when non-empty
}

// HTTP implements spec.md §4.C's Backend contract over plain HTTP/HTTPS,
// serving both the HTTP endpoint family and DICOMweb targets (DICOMweb is
// itself an HTTP-based profile; no separate wire handling is needed here).
type HTTP struct {
	name   string
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTP builds an HTTP backend named name using client, or
// http.DefaultClient if client is nil.
func NewHTTP(name string, cfg HTTPConfig, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{name: name, cfg: cfg, client: client}
}

func (b *HTTP) Name() string { return b.name }

func (b *HTTP) Invoke(ctx context.Context, req *envelope.RequestEnvelope[[]byte]) (*envelope.ResponseEnvelope[[]byte], error) {
	if len(b.cfg.Targets) == 0 {
		return nil, gwerrors.New(gwerrors.KindBackendTransport, b.name, "no targets configured")
	}
	target := b.cfg.Targets[0]

	outURL, err := joinTargetURI(target, req.RequestDetails.URI, req.RequestDetails.QueryParams)
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindBackendTransport, b.name, "invalid target URL", err)
	}

	method := req.RequestDetails.Method
	if b.cfg.Method != "" {
		method = b.cfg.Method
	}
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, outURL, bytes.NewReader(req.OriginalData))
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindBackendTransport, b.name, "failed to build request", err)
	}
	for k, v := range req.RequestDetails.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := b.client.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, gwerrors.Wrap(gwerrors.KindBackendCanceled, b.name, "request canceled", err)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, gwerrors.Wrap(gwerrors.KindBackendTimeout, b.name, "request timed out", err)
		}
		return nil, gwerrors.Wrap(gwerrors.KindBackendTransport, b.name, "target unreachable", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindBackendTransport, b.name, "failed to read target response", err)
	}

	resp := envelope.NewResponseEnvelope[[]byte](httpResp.StatusCode)
	resp.OriginalData = body
	resp.ResponseDetails.Metadata[envelope.MetaRequestID] = req.RequestDetails.Metadata[envelope.MetaRequestID]
	for k := range httpResp.Header {
		resp.ResponseDetails.Headers[strings.ToLower(k)] = httpResp.Header.Get(k)
	}
	return resp, nil
}

func joinTargetURI(target, uri string, query map[string][]string) (string, error) {
	base, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if uri != "" {
		ref, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		base = base.ResolveReference(ref)
	}

	q := base.Query()
	for k, values := range query {
		for _, v := range values {
			q.Add(k, v)
		}
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}
