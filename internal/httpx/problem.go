// Package httpx renders gateway errors as RFC 7807 Problem Details, the
// format used for every HTTP-adapter error response and for the management
// API's own error paths. It builds on github.com/moogar0880/problems for the
// core fields and adds the correlation extensions the gateway needs.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/moogar0880/problems"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/httpctx"
)

// ContentTypeProblemJSON is the media type written by WriteProblem.
const ContentTypeProblemJSON = "application/problem+json"

const problemTypeBase = "https://harmony.aurabx.dev/problems/"

// Problem is an RFC 7807 Problem Details document with gateway-specific
// correlation extensions. Create one per response; it is not safe to reuse
// across requests.
type Problem struct {
	*problems.DefaultProblem

	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

var kindTitles = map[gwerrors.Kind]string{
	gwerrors.KindAuth:             "Unauthorized",
	gwerrors.KindNotFound:         "Not Found",
	gwerrors.KindTransform:        "Transform Error",
	gwerrors.KindBackendTransport: "Backend Unreachable",
	gwerrors.KindBackendTimeout:   "Backend Timeout",
	gwerrors.KindBackendCanceled:  "Request Canceled",
	gwerrors.KindInternal:         "Internal Server Error",
}

// FromError builds a Problem from err using the gateway error taxonomy. If
// err does not carry a recognized Kind it is treated as KindInternal and no
// part of err.Error() is echoed to the client, per §7's "never leaked to the
// client" rule.
func FromError(r *http.Request, err error) *Problem {
	kind, ok := gwerrors.AsKind(err)
	if !ok {
		kind = gwerrors.KindInternal
	}
	status := kind.DefaultStatus()
	if status == 0 {
		status = http.StatusInternalServerError
	}

	title := kindTitles[kind]
	if title == "" {
		title = "Internal Server Error"
	}

	detail := title
	if status < 500 && err != nil {
		detail = err.Error()
	}

	base := problems.NewDetailedProblem(status, detail)
	base.Type = problemTypeBase + string(kind)
	base.Title = title

	p := &Problem{DefaultProblem: base, Kind: string(kind)}
	if r != nil {
		base.Instance = r.URL.Path
		p.RequestID = httpctx.GetRequestID(r.Context())
		if traceID := httpctx.GetTraceID(r.Context()); traceID != "" && traceID != httpctx.EmptyTraceID {
			p.TraceID = traceID
		}
	}
	return p
}

// NewProblem builds a bare Problem for situations with no classified error,
// such as the Recoverer middleware's panic response.
func NewProblem(status int, title, detail string) *Problem {
	base := problems.NewDetailedProblem(status, detail)
	base.Title = title
	return &Problem{DefaultProblem: base}
}

// WriteProblem serializes p as application/problem+json and writes the
// status code. It never returns an error: once headers are written there is
// nothing useful to do with an encode failure.
func WriteProblem(w http.ResponseWriter, p *Problem) {
	if p == nil {
		p = NewProblem(http.StatusInternalServerError, "Internal Server Error", "An internal error occurred")
	}
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", ContentTypeProblemJSON)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
