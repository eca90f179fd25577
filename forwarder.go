// FILE: forwarder.go
package forward

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Forwarder streams log records to a remote TCP collector. Emission is
// synchronous and non-blocking for the caller; delivery is
// asynchronous and best-effort. Under backpressure the buffer sheds
// records by severity rather than growing without bound.
type Forwarder struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	serializer *serializer
	formatter  Formatter // optional override of the default rendering
	dial       DialFunc

	// Processor-owned state. Only the processor goroutine touches
	// these fields after Start.
	buf        deque
	producer   *producer
	transport  Transport
	connEvents chan connEvent
	retryChan  chan struct{}
	retryTimer *time.Timer
	dialCtx    context.Context
	dialCancel context.CancelFunc
}

// NewForwarder creates a new Forwarder instance with default settings
func NewForwarder() *Forwarder {
	f := &Forwarder{
		serializer: newSerializer(),
		dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, address)
		},
		connEvents: make(chan connEvent, 1),
		retryChan:  make(chan struct{}, 1),
	}

	f.currentConfig.Store(DefaultConfig())

	f.state.IsInitialized.Store(false)
	f.state.ForwarderDisabled.Store(false)
	f.state.ShutdownCalled.Store(false)
	f.state.ProcessorExited.Store(true)
	f.state.ConnState.Store(int32(connIdle))

	// Create a closed channel initially to prevent nil pointer issues
	initialChan := make(chan Record)
	close(initialChan)
	f.state.ActiveChannel.Store(initialChan)

	f.state.flushRequestChan = make(chan chan struct{}, 1)

	return f
}

// ApplyConfig applies a validated configuration to the forwarder.
// This is the primary way applications should configure it.
func (f *Forwarder) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return err
	}

	f.initMu.Lock()
	defer f.initMu.Unlock()

	return f.applyConfig(cfg)
}

// applyConfig is the internal implementation, assuming initMu is held
func (f *Forwarder) applyConfig(cfg *Config) error {
	oldCfg := f.getConfig()
	f.currentConfig.Store(cfg)

	f.serializer.setTimestampFormat(cfg.TimestampFormat)

	wasStarted := f.state.Started.Load()
	needsRestart := wasStarted && configRequiresRestart(oldCfg, cfg)

	if needsRestart {
		if err := f.Stop(); err != nil {
			f.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	f.state.IsInitialized.Store(true)

	if needsRestart {
		if err := f.Start(); err != nil {
			return fmtErrorf("failed to restart processor: %w", err)
		}
	}

	return nil
}

// ApplyConfigString applies string key-value overrides to the current
// configuration. Each override should be in the format "key=value".
func (f *Forwarder) ApplyConfigString(overrides ...string) error {
	cfg := f.getConfig().Clone()

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return f.ApplyConfig(cfg)
}

// GetConfig returns a copy of current configuration
func (f *Forwarder) GetConfig() *Config {
	return f.getConfig().Clone()
}

// getConfig returns the current configuration (thread-safe)
func (f *Forwarder) getConfig() *Config {
	return f.currentConfig.Load().(*Config)
}

// SetFormatter installs the record rendering capability. A nil
// formatter restores the built-in serializer. Call before Start;
// the producer reads it when a connection binds.
func (f *Forwarder) SetFormatter(fn Formatter) {
	f.initMu.Lock()
	defer f.initMu.Unlock()
	f.formatter = fn
}

// SetDialFunc installs the transport-connecting capability. Call
// before Start. Used by tests and by secure-transport integrations.
func (f *Forwarder) SetDialFunc(fn DialFunc) {
	f.initMu.Lock()
	defer f.initMu.Unlock()
	if fn != nil {
		f.dial = fn
	}
}

// Start begins record processing and triggers the first connection
// attempt. Safe to call multiple times.
func (f *Forwarder) Start() error {
	if !f.state.IsInitialized.Load() {
		return fmtErrorf("forwarder not initialized, call ApplyConfig first")
	}

	if f.state.Started.CompareAndSwap(false, true) {
		cfg := f.getConfig()

		recordChannel := make(chan Record, cfg.BufferSize)
		f.state.ActiveChannel.Store(recordChannel)

		f.dialCtx, f.dialCancel = context.WithCancel(context.Background())

		f.state.ProcessorExited.Store(false)
		go f.process(recordChannel)
	}

	return nil
}

// Stop halts processing and closes any active connection. Buffered but
// undelivered records are discarded; delivery is best-effort by
// design. Can be restarted with Start().
func (f *Forwarder) Stop(timeout ...time.Duration) error {
	if !f.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = time.Second
	}

	// Cancel any in-flight dial before signalling the processor
	if f.dialCancel != nil {
		f.dialCancel()
	}

	ch := f.getActiveChannel()
	if ch != nil {
		// Create closed channel for immediate replacement
		closedChan := make(chan Record)
		close(closedChan)
		f.state.ActiveChannel.Store(closedChan)

		// Close the actual channel to signal the processor
		close(ch)
	}

	// Wait for processor to exit (with timeout)
	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if f.state.ProcessorExited.Load() {
			break
		}
		time.Sleep(minWaitTime)
	}

	if !f.state.ProcessorExited.Load() {
		return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}

	return nil
}

// Shutdown permanently closes the forwarder. Remaining buffered
// records are not drained; shutdown data loss is accepted behavior.
func (f *Forwarder) Shutdown(timeout ...time.Duration) error {
	if !f.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	f.state.ForwarderDisabled.Store(true)

	if !f.state.IsInitialized.Load() {
		f.state.ProcessorExited.Store(true)
		return nil
	}

	var stopErr error
	if f.state.Started.Load() {
		stopErr = f.Stop(timeout...)
	}

	f.state.IsInitialized.Store(false)

	return stopErr
}

// Flush asks the processor to drain the buffer onto the transport and
// waits for the pass to complete or the timeout to expire. Completion
// means the buffer was offered to the transport, not that the remote
// end received anything.
func (f *Forwarder) Flush(timeout time.Duration) error {
	f.state.flushMutex.Lock()
	defer f.state.flushMutex.Unlock()

	if !f.state.IsInitialized.Load() || f.state.ShutdownCalled.Load() {
		return fmtErrorf("forwarder not initialized or already shut down")
	}
	if !f.state.Started.Load() {
		return fmtErrorf("forwarder not started")
	}

	confirmChan := make(chan struct{})

	select {
	case f.state.flushRequestChan <- confirmChan:
		// Request sent
	case <-time.After(minWaitTime):
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// getActiveChannel safely retrieves the current hand-off channel
func (f *Forwarder) getActiveChannel() chan Record {
	chVal := f.state.ActiveChannel.Load()
	return chVal.(chan Record)
}

// formatRecord renders a record with the installed formatter, falling
// back to the built-in serializer
func (f *Forwarder) formatRecord(r Record) string {
	if f.formatter != nil {
		return f.formatter(r)
	}
	cfg := f.getConfig()
	return string(f.serializer.serialize(cfg.Format, cfg.ShowTimestamp, cfg.ShowLevel, r.TimeStamp, r.Level, r.Args))
}
