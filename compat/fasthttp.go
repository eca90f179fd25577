package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/forward"
)

// FastHTTPAdapter satisfies the fasthttp Logger interface. fasthttp
// exposes a single Printf with no severity, so the adapter assigns one
// by scanning the message, falling back to a configurable default.
type FastHTTPAdapter struct {
	forwarder    *forward.Forwarder
	defaultLevel int64
	detect       func(string) int64
}

// NewFastHTTPAdapter wraps a forwarder for use as a fasthttp logger
func NewFastHTTPAdapter(f *forward.Forwarder, opts ...FastHTTPOption) *FastHTTPAdapter {
	a := &FastHTTPAdapter{
		forwarder:    f,
		defaultLevel: forward.LevelInfo,
		detect:       DetectLogLevel,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FastHTTPOption customizes the adapter
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the severity used when detection is disabled
// or inconclusive
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector replaces the message scan; nil disables detection
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.detect = detector
	}
}

// Printf implements the fasthttp Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.detect != nil {
		if detected := a.detect(msg); detected != 0 {
			level = detected
		}
	}

	a.forwarder.Emit(forward.Record{
		Level: level,
		Args:  []any{"msg", msg, "source", "fasthttp"},
	})
}

// levelHints orders the keyword scan; the first group containing a
// match decides the severity
var levelHints = []struct {
	level int64
	words []string
}{
	{forward.LevelError, []string{"error", "failed", "fatal", "panic"}},
	{forward.LevelWarn, []string{"warn", "deprecated"}},
	{forward.LevelDebug, []string{"debug", "trace"}},
}

// DetectLogLevel guesses a severity from message content. Plain
// messages report info, which Printf treats as inconclusive and maps
// to the adapter's default level.
func DetectLogLevel(msg string) int64 {
	msg = strings.ToLower(msg)
	for _, hint := range levelHints {
		for _, word := range hint.words {
			if strings.Contains(msg, word) {
				return hint.level
			}
		}
	}
	return forward.LevelInfo
}
