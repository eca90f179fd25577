// FILE: pressure.go
package forward

// handlePressure sheds buffered records until the buffer fits the
// configured maximum. Stages run in fixed order, cheapest data first,
// re-checking the size after each:
//
//  1. Drop every record below INFO.
//  2. Drop every record below WARN.
//  3. Cut the middle out, keeping the first and last
//     floor(maximum/2) records in arrival order.
//
// A failure inside the relief pass clears the whole buffer and is
// reported through internal diagnostics; it never reaches the caller.
func (f *Forwarder) handlePressure() {
	defer func() {
		if r := recover(); r != nil {
			f.buf.Clear()
			f.internalLog("pressure relief failed, buffer cleared: %v\n", r)
		}
	}()

	maximum := int(f.getConfig().MaximumBuffer)
	if f.buf.Len() <= maximum {
		return
	}

	shed := f.buf.dropBelow(LevelInfo)

	if f.buf.Len() > maximum {
		shed += f.buf.dropBelow(LevelWarn)
	}

	if f.buf.Len() > maximum {
		shed += f.buf.cutMiddle(maximum / 2)
	}

	if shed > 0 {
		f.state.ShedRecords.Add(uint64(shed))
	}
}
