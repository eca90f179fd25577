// FILE: producer.go
package forward

import (
	"sync/atomic"
)

// Transport is the minimal capability the producer needs from a
// connection: buffered writes and a write-readiness signal. Satisfied
// by netTransport for plain TCP; a secure transport plugs in through
// DialFunc without touching the producer.
type Transport interface {
	Write(p []byte) (int, error)
	Connected() bool
	Close() error
}

// producer drains the shared record buffer onto exactly one transport.
// It is created, resumed and stopped only by the processor goroutine,
// so there is no locking; pausing is cooperative and observed between
// records, never mid-write.
type producer struct {
	transport Transport
	buf       *deque // borrowed from the owning Forwarder, nil after stop
	format    Formatter
	report    func(format string, args ...any)
	delivered *atomic.Uint64
	paused    bool
}

func newProducer(t Transport, buf *deque, format Formatter, report func(string, ...any), delivered *atomic.Uint64) *producer {
	return &producer{
		transport: t,
		buf:       buf,
		format:    format,
		report:    report,
		delivered: delivered,
		paused:    true,
	}
}

// resume clears the paused flag and drains the buffer head-first while
// the transport stays writable. Idempotent: each record is popped
// before it is written, so a second resume against the same transport
// cannot duplicate delivery. A write failure reports, leaves the
// producer paused, and keeps the remaining records buffered.
func (p *producer) resume() {
	p.paused = false

	for !p.paused && p.buf != nil && p.buf.Len() > 0 && p.transport.Connected() {
		record, ok := p.buf.PopFront()
		if !ok {
			return
		}

		// One framed record per write call, no partial frames
		line := append([]byte(p.format(record)), '\n')
		if _, err := p.transport.Write(line); err != nil {
			p.report("write failed, producer paused: %v\n", err)
			p.paused = true
			return
		}
		p.delivered.Add(1)
	}
}

// pause stops draining after the in-flight record completes
func (p *producer) pause() {
	p.paused = true
}

// stop pauses and drops the back-reference to the owning buffer so a
// discarded producer cannot outlive its binding
func (p *producer) stop() {
	p.paused = true
	p.buf = nil
}
