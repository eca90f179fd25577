// FILE: conn.go
package forward

import (
	"context"
	"net"
	"strconv"
	"sync/atomic"
	"time"
)

// networkFor picks the dial network for the configured host. IP
// literals pin the address family; hostnames resolve through "tcp".
func networkFor(host string) string {
	ip := net.ParseIP(host)
	switch {
	case ip == nil:
		return "tcp"
	case ip.To4() != nil:
		return "tcp4"
	default:
		return "tcp6"
	}
}

// connect starts a dial attempt unless one is already outstanding or a
// connection is live. Runs only on the processor goroutine; the dial
// itself happens on a short-lived goroutine that reports back through
// connEvents.
func (f *Forwarder) connect() {
	if f.connState() != connIdle {
		return
	}
	f.setConnState(connConnecting)

	cfg := f.getConfig()
	address := net.JoinHostPort(cfg.Host, strconv.FormatUint(uint64(cfg.Port), 10))
	network := networkFor(cfg.Host)
	timeout := time.Duration(cfg.DialTimeoutMs) * time.Millisecond

	ctx := f.dialCtx
	dial := f.dial

	go func() {
		dialCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		conn, err := dial(dialCtx, network, address)
		select {
		case f.connEvents <- connEvent{conn: conn, err: err}:
		case <-ctx.Done():
			// Forwarder stopped while dialing; nobody will bind this
			if conn != nil {
				_ = conn.Close()
			}
		}
	}()
}

// handleConnEvent consumes a dial result on the processor goroutine
func (f *Forwarder) handleConnEvent(ev connEvent) {
	if ev.err != nil {
		f.setConnState(connIdle)
		f.internalLog("connect to %s:%d failed: %v\n",
			f.getConfig().Host, f.getConfig().Port, ev.err)
		f.scheduleRetry()
		return
	}

	transport := newNetTransport(ev.conn)
	f.transport = transport
	f.setConnState(connConnected)
	f.bindProducer(transport)
}

// scheduleRetry re-invokes connect, immediately by default. A non-zero
// retry_delay_ms paces the attempts through the retry timer instead.
func (f *Forwarder) scheduleRetry() {
	delay := time.Duration(f.getConfig().RetryDelayMs) * time.Millisecond
	if delay <= 0 {
		f.connect()
		return
	}
	f.retryTimer = time.AfterFunc(delay, func() {
		select {
		case f.retryChan <- struct{}{}:
		default:
		}
	})
}

// dropTransport tears down the active connection after a write failure
// or remote close, then lets the connection manager retry. Buffered
// records are retained for the next successful connection.
func (f *Forwarder) dropTransport() {
	if f.producer != nil {
		f.producer.stop()
		f.producer = nil
	}
	if f.transport != nil {
		_ = f.transport.Close()
		f.transport = nil
	}
	f.setConnState(connIdle)
	f.scheduleRetry()
}

// netTransport adapts a net.Conn to the producer's transport
// capability. The up flag is the write-readiness signal: it drops on
// the first write failure or on Close, pausing the producer.
type netTransport struct {
	conn net.Conn
	up   atomic.Bool
}

func newNetTransport(conn net.Conn) *netTransport {
	t := &netTransport{conn: conn}
	t.up.Store(true)
	return t
}

// Write sends one framed record as a single write call
func (t *netTransport) Write(p []byte) (int, error) {
	n, err := t.conn.Write(p)
	if err != nil {
		t.up.Store(false)
	}
	return n, err
}

// Connected reports whether the transport can accept more data
func (t *netTransport) Connected() bool {
	return t.up.Load()
}

// Close shuts the underlying connection
func (t *netTransport) Close() error {
	t.up.Store(false)
	return t.conn.Close()
}
