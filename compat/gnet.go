package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/forward"
)

// fatalFlushWait bounds how long Fatalf lingers for its record to be
// offered to the transport before control passes to the fatal handler
const fatalFlushWait = 100 * time.Millisecond

// GnetAdapter satisfies gnet's logging.Logger, so an event engine's
// internal diagnostics travel through the forwarder alongside
// application records
type GnetAdapter struct {
	forwarder *forward.Forwarder
	onFatal   func(msg string)
}

// NewGnetAdapter wraps a forwarder for use as a gnet logger
func NewGnetAdapter(f *forward.Forwarder, opts ...GnetOption) *GnetAdapter {
	a := &GnetAdapter{
		forwarder: f,
		onFatal:   func(string) { os.Exit(1) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GnetOption customizes the adapter
type GnetOption func(*GnetAdapter)

// WithFatalHandler replaces the default os.Exit(1) on Fatalf
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.onFatal = handler
	}
}

// emit queues one tagged record; the forwarder fills the timestamp
// and applies the configured level gate
func (a *GnetAdapter) emit(level int64, msg string, extra ...any) {
	a.forwarder.Emit(forward.Record{
		Level: level,
		Args:  append([]any{"msg", msg, "source", "gnet"}, extra...),
	})
}

func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.emit(forward.LevelDebug, fmt.Sprintf(format, args...))
}

func (a *GnetAdapter) Infof(format string, args ...any) {
	a.emit(forward.LevelInfo, fmt.Sprintf(format, args...))
}

func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.emit(forward.LevelWarn, fmt.Sprintf(format, args...))
}

func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.emit(forward.LevelError, fmt.Sprintf(format, args...))
}

// Fatalf emits at critical severity, gives the producer a short window
// to push the record out, then invokes the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.emit(forward.LevelCritical, msg, "fatal", true)

	_ = a.forwarder.Flush(fatalFlushWait)

	if a.onFatal != nil {
		a.onFatal(msg)
	}
}
