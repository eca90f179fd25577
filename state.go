// FILE: state.go
package forward

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the forwarder
type State struct {
	IsInitialized     atomic.Bool
	ForwarderDisabled atomic.Bool
	ShutdownCalled    atomic.Bool
	Started           atomic.Bool
	ProcessorExited   atomic.Bool // Tracks if the processor goroutine is running or has exited

	flushRequestChan chan chan struct{} // Channel to request a flush
	flushMutex       sync.Mutex         // Protect concurrent Flush calls

	ActiveChannel atomic.Value // stores chan Record
	ConnState     atomic.Int32 // stores connState, written only by the processor

	DroppedRecords   atomic.Uint64 // Records dropped at the hand-off channel
	ShedRecords      atomic.Uint64 // Records discarded by pressure relief
	DeliveredRecords atomic.Uint64 // Records written to the transport
}

// connState returns the current connection lifecycle state
func (f *Forwarder) connState() connState {
	return connState(f.state.ConnState.Load())
}

// setConnState publishes the connection lifecycle state
func (f *Forwarder) setConnState(s connState) {
	f.state.ConnState.Store(int32(s))
}
