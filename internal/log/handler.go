package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the longest string attribute value the handler
// passes through unmodified. Rendered pages routinely run to hundreds
// of kilobytes; anything near that size in a log line is noise.
const DefaultMaxValueLen = 512

// TruncatingHandler wraps an slog.Handler and truncates oversized
// string attribute values before they reach the underlying handler.
//
// Design decision: We use a handler wrapper rather than trimming at
// every call site because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay free of length bookkeeping
type TruncatingHandler struct {
	// handler is the underlying slog handler that receives the
	// truncated records.
	handler slog.Handler

	// maxLen is the longest string value passed through unmodified.
	maxLen int
}

// NewTruncatingHandler creates a TruncatingHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used; a
// non-positive maxLen falls back to DefaultMaxValueLen.
func NewTruncatingHandler(handler slog.Handler, maxLen int) *TruncatingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &TruncatingHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given
// level. It delegates to the underlying handler.
func (h *TruncatingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle truncates the record's attributes and passes it on.
func (h *TruncatingHandler) Handle(ctx context.Context, r slog.Record) error {
	truncated := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		truncated.AddAttrs(h.truncateAttr(a))
		return true
	})

	return h.handler.Handle(ctx, truncated)
}

// WithAttrs returns a new handler with the given attributes added,
// truncated first.
func (h *TruncatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	truncated := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		truncated[i] = h.truncateAttr(a)
	}
	return &TruncatingHandler{handler: h.handler.WithAttrs(truncated), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncatingHandler) WithGroup(name string) slog.Handler {
	return &TruncatingHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// truncateAttr truncates a single attribute, recursively handling
// groups.
func (h *TruncatingHandler) truncateAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		truncated := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			truncated[i] = h.truncateAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(truncated...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	v := a.Value.String()
	if len(v) <= h.maxLen {
		return a
	}

	cut := h.maxLen
	// Back up to a rune boundary so the cut never splits a character.
	for cut > 0 && !utf8.RuneStart(v[cut]) {
		cut--
	}

	return slog.String(a.Key, fmt.Sprintf("%s... (%d bytes truncated)", v[:cut], len(v)-cut))
}

// NewLogger creates a text logger writing to w.
// Verbose mode lowers the level to Debug; the default level is Info.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewTruncatingHandler(slog.NewTextHandler(w, handlerOptions(verbose)), 0))
}

// NewJSONLogger creates a JSON logger writing to w. Useful for
// structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewTruncatingHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), 0))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
