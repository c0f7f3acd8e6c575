package httpadapter

import (
	"io"
	"net/http"

	"github.com/aurabx/harmony/internal/envelope"
	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/httpctx"
	"github.com/aurabx/harmony/internal/httpx"
)

func (a *Adapter) dispatch(w http.ResponseWriter, r *http.Request) {
	route, ok := a.routes.match(r.URL.Path)
	if !ok {
		err := gwerrors.New(gwerrors.KindNotFound, a.name, "no route matches "+r.URL.Path)
		a.writeProblem(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.writeProblem(w, r, gwerrors.Wrap(gwerrors.KindInternal, a.name, "failed to read request body", err))
		return
	}

	protoCtx := envelope.NewProtocolCtx(envelope.ProtocolHTTP, body)
	protoCtx.Attrs["method"] = r.Method
	protoCtx.Attrs["path"] = r.URL.Path
	protoCtx.Attrs["query"] = map[string][]string(r.URL.Query())

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	protoCtx.Attrs["headers"] = headers

	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}
	protoCtx.Attrs["cookies"] = cookies

	if requestID := httpctx.GetRequestID(r.Context()); requestID != "" {
		protoCtx.Meta["request_id"] = requestID
	}

	req, err := route.Pipeline.Endpoint.BuildEnvelope(protoCtx)
	if err != nil {
		a.writeProblem(w, r, gwerrors.Wrap(gwerrors.KindInternal, a.name, "failed to build request envelope", err))
		return
	}

	resp := a.executor.Execute(r.Context(), req, route.Pipeline)
	a.writeResponse(w, r, resp)
}

func (a *Adapter) writeResponse(w http.ResponseWriter, r *http.Request, resp *envelope.ResponseEnvelope[[]byte]) {
	if resp.ResponseDetails.Status >= 400 && len(resp.OriginalData) == 0 {
		// The pipeline already resolved the status from the error's Kind;
		// render a Problem at that status rather than re-deriving it, since
		// a passthrough 4xx/5xx from a backend carries no Kind at all.
		title := http.StatusText(resp.ResponseDetails.Status)
		if title == "" {
			title = "Request Failed"
		}
		problem := httpx.NewProblem(resp.ResponseDetails.Status, title, title)
		problem.RequestID = resp.ResponseDetails.Metadata[envelope.MetaRequestID]
		problem.Kind = resp.ResponseDetails.Metadata[envelope.MetaErrorKind]
		httpx.WriteProblem(w, problem)
		return
	}

	contentType := resp.ResponseDetails.Headers["content-type"]
	if contentType == "" {
		contentType = http.DetectContentType(resp.OriginalData)
	}
	w.Header().Set("Content-Type", contentType)
	for k, v := range resp.ResponseDetails.Headers {
		if k == "content-type" {
			continue
		}
		w.Header().Set(k, v)
	}

	status := resp.ResponseDetails.Status
	if !envelope.ValidStatus(status) {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)
	_, _ = w.Write(resp.OriginalData)
}

func (a *Adapter) writeProblem(w http.ResponseWriter, r *http.Request, err error) {
	problem := httpx.FromError(r, err)
	httpx.WriteProblem(w, problem)
}
