package compat

import (
	"context"
	"log/slog"

	"github.com/lixenwraith/forward"
)

// SlogHandler implements slog.Handler on top of a forward.Forwarder,
// so code already written against log/slog streams to the collector.
// The forwarder's level constants share slog's numbering, making the
// translation direct.
type SlogHandler struct {
	forwarder *forward.Forwarder
	attrs     []slog.Attr
	groups    []string
}

// NewSlogHandler creates a slog.Handler that emits through the forwarder
func NewSlogHandler(f *forward.Forwarder) *SlogHandler {
	return &SlogHandler{forwarder: f}
}

// Enabled defers level filtering to the forwarder's configuration
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return clampLevel(level) >= h.forwarder.GetConfig().Level
}

// Handle converts a slog.Record to forwarder args. Attributes flatten
// to alternating key/value pairs; group names prefix their keys.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	args := make([]any, 0, 2+2*(len(h.attrs)+r.NumAttrs()))
	args = append(args, "msg", r.Message)

	for _, attr := range h.attrs {
		args = append(args, attr.Key, attr.Value.Resolve().Any())
	}
	r.Attrs(func(attr slog.Attr) bool {
		args = append(args, h.qualify(attr.Key), attr.Value.Resolve().Any())
		return true
	})

	h.forwarder.Emit(forward.Record{
		TimeStamp: r.Time,
		Level:     clampLevel(r.Level),
		Args:      args,
	})
	return nil
}

// clampLevel raises slog's open-ended verbose levels to the lowest
// defined severity, so a forwarder configured to accept debug accepts
// every slog record
func clampLevel(l slog.Level) int64 {
	if v := int64(l); v >= forward.LevelDebug {
		return v
	}
	return forward.LevelDebug
}

// WithAttrs returns a handler that includes the given attributes on
// every record. Keys are qualified with the open groups at capture
// time, so groups opened later do not retroactively apply.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.qualify(attr.Key)
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup returns a handler that prefixes subsequent attribute keys
// with the group name
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// qualify prefixes a key with the open group names
func (h *SlogHandler) qualify(key string) string {
	for i := len(h.groups) - 1; i >= 0; i-- {
		key = h.groups[i] + "." + key
	}
	return key
}
