package observability

import (
	"context"
	"log/slog"

	"github.com/aurabx/harmony/internal/domain"
)

// redactingHandler wraps a slog.Handler and runs every attribute value
// through a domain.Redactor before it reaches the wrapped handler. This is
// what keeps PHI-bearing field names (email, ssn, password, ...) out of
// structured log output regardless of which log call site set them.
type redactingHandler struct {
	next     slog.Handler
	redactor domain.Redactor
}

// NewRedactingHandler wraps next so attribute values are redacted before
// being written.
func NewRedactingHandler(next slog.Handler, redactor domain.Redactor) slog.Handler {
	return &redactingHandler{next: next, redactor: redactor}
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, redacted)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &redactingHandler{next: h.next.WithAttrs(redacted), redactor: h.redactor}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}

// redactAttr redacts a single attribute, recursing into group values so
// nested fields (e.g. request metadata logged as a group) are covered too.
func (h *redactingHandler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, ga := range group {
			redacted[i] = h.redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	out := h.redactor.RedactMap(map[string]any{a.Key: a.Value.Any()})
	return slog.Any(a.Key, out[a.Key])
}
