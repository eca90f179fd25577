// FILE: emit.go
package forward

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Emit hands a record to the processor. It never blocks and never
// panics outward, regardless of connectivity: the hand-off is a
// non-blocking channel send, and a full channel counts a drop instead
// of waiting. Records below the configured level are ignored.
func (f *Forwarder) Emit(record Record) {
	if !f.state.IsInitialized.Load() {
		return
	}

	cfg := f.getConfig()
	if record.Level < cfg.Level {
		return
	}

	if record.TimeStamp.IsZero() {
		record.TimeStamp = time.Now()
	}

	f.sendRecord(record)
}

// Debug emits a record at debug level
func (f *Forwarder) Debug(args ...any) {
	f.emit(LevelDebug, args...)
}

// Info emits a record at info level
func (f *Forwarder) Info(args ...any) {
	f.emit(LevelInfo, args...)
}

// Warn emits a record at warning level
func (f *Forwarder) Warn(args ...any) {
	f.emit(LevelWarn, args...)
}

// Error emits a record at error level
func (f *Forwarder) Error(args ...any) {
	f.emit(LevelError, args...)
}

// Critical emits a record at critical level
func (f *Forwarder) Critical(args ...any) {
	f.emit(LevelCritical, args...)
}

func (f *Forwarder) emit(level int64, args ...any) {
	f.Emit(Record{
		TimeStamp: time.Now(),
		Level:     level,
		Args:      args,
	})
}

// sendRecord handles safe sending to the active channel
func (f *Forwarder) sendRecord(record Record) {
	defer func() {
		if r := recover(); r != nil { // Catch panic on send to closed channel
			f.handleFailedSend(record)
		}
	}()

	if f.state.ShutdownCalled.Load() || f.state.ForwarderDisabled.Load() {
		// Count drops even while disabled or shutting down
		f.handleFailedSend(record)
		return
	}

	ch := f.getActiveChannel()

	// Non-blocking send
	select {
	case ch <- record:
		// Success: check if accumulated drops need to be reported
		if record.unreportedDrops == 0 {
			droppedCount := f.state.DroppedRecords.Swap(0)

			if droppedCount > 0 {
				dropRecord := Record{
					TimeStamp:       time.Now(),
					Level:           LevelError,
					Args:            []any{"records were dropped", "dropped_count", droppedCount},
					unreportedDrops: droppedCount, // Carry the count for recovery
				}
				// No success check required, count is restored if it fails
				f.sendRecord(dropRecord)
			}
		}
	default:
		f.handleFailedSend(record)
	}
}

// handleFailedSend restores or increments the drop counter
func (f *Forwarder) handleFailedSend(record Record) {
	// For a regular record, add 1 to the dropped count.
	// For a drop report, restore the carried count.
	amountToAdd := uint64(1)
	if record.unreportedDrops > 0 {
		amountToAdd = record.unreportedDrops
	}
	f.state.DroppedRecords.Add(amountToAdd)
}

// internalLog handles writing internal diagnostics to stderr, if enabled
func (f *Forwarder) internalLog(format string, args ...any) {
	cfg := f.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	// Ensure consistent "forward: " prefix
	if !strings.HasPrefix(format, "forward: ") {
		format = "forward: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
