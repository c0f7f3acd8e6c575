package httpmw

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	gwerrors "github.com/aurabx/harmony/internal/errors"
	"github.com/aurabx/harmony/internal/httpx"
)

// BodyLimiter enforces a maximum request body size and returns RFC 7807 with HTTP 413 when exceeded.
// It avoids double-writes from MaxBytesReader and bounds memory to maxBytes+1.
func BodyLimiter(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > 0 && r.ContentLength > maxBytes {
				handleTooLarge(w, r)
				return
			}

			limited := http.MaxBytesReader(w, r.Body, maxBytes)
			defer func() { _ = limited.Close() }()

			// Read up to maxBytes+1 to detect overflow before calling handler.
			data, err := io.ReadAll(io.LimitReader(limited, maxBytes+1))
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					handleTooLarge(w, r)
					return
				}

				gwErr := gwerrors.Wrap(gwerrors.KindInternal, "body_limiter", "failed to read request body", err)
				httpx.WriteProblem(w, httpx.FromError(r, gwErr))
				return
			}

			if int64(len(data)) > maxBytes {
				handleTooLarge(w, r)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(data))
			next.ServeHTTP(w, r)
		})
	}
}

func handleTooLarge(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
	problem := httpx.NewProblem(http.StatusRequestEntityTooLarge, "Request Entity Too Large", "request body too large")
	problem.Kind = string(gwerrors.KindTransform)
	httpx.WriteProblem(w, problem)
}
