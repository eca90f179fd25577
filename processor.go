// FILE: processor.go
package forward

// process is the forwarder's event loop, running in its own goroutine.
// It is the only goroutine that touches the record buffer, the
// producer, and the transport binding, which keeps the core logic
// lock-free: records arrive through the hand-off channel, dial results
// through connEvents, and everything else is sequential.
func (f *Forwarder) process(ch <-chan Record) {
	f.state.ProcessorExited.Store(false)
	defer f.state.ProcessorExited.Store(true)
	defer f.teardown()

	// Eager first attempt so records queued before the collector is
	// reachable flush as soon as it comes up
	f.connect()

	for {
		select {
		case record, ok := <-ch:
			if !ok {
				return
			}
			f.buf.PushBack(record)
			f.handlePressure()
			f.flushOrConnect()

		case ev := <-f.connEvents:
			f.handleConnEvent(ev)

		case <-f.retryChan:
			f.connect()

		case confirmChan := <-f.state.flushRequestChan:
			f.flushOrConnect()
			close(confirmChan)
		}
	}
}

// flushOrConnect resumes the bound producer when connected, otherwise
// triggers a connection attempt. The connect side is a no-op while an
// attempt is already outstanding.
func (f *Forwarder) flushOrConnect() {
	if f.connState() != connConnected {
		f.connect()
		return
	}
	if f.producer != nil {
		f.producer.resume()
		if f.transport != nil && !f.transport.Connected() {
			f.dropTransport()
		}
	}
}

// bindProducer attaches the producer to a freshly connected transport.
// A producer still bound to a previous transport is stopped first so a
// record can never be delivered twice or written to a dead connection.
func (f *Forwarder) bindProducer(t Transport) {
	if f.producer != nil {
		if f.producer.transport == t {
			f.producer.resume()
			return
		}
		f.producer.stop()
	}

	f.producer = newProducer(t, &f.buf, f.formatRecord, f.internalLog, &f.state.DeliveredRecords)
	f.producer.resume()

	if !t.Connected() {
		// The first drain already hit a write failure
		f.dropTransport()
	}
}

// teardown releases processor-owned resources on exit. A dial that
// completed after shutdown began may have parked a live connection in
// connEvents; close it rather than leak it.
func (f *Forwarder) teardown() {
	if f.retryTimer != nil {
		f.retryTimer.Stop()
		f.retryTimer = nil
	}
	if f.producer != nil {
		f.producer.stop()
		f.producer = nil
	}
	if f.transport != nil {
		_ = f.transport.Close()
		f.transport = nil
	}
	f.setConnState(connIdle)

	select {
	case ev := <-f.connEvents:
		if ev.conn != nil {
			_ = ev.conn.Close()
		}
	default:
	}
}
