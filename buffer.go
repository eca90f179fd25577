// FILE: buffer.go
package forward

// deque is a growable ring buffer of records with O(1) operations at
// both ends. Delivery order is FIFO; the pressure-relief middle cut
// needs the cheap tail end as well. It is owned by the processor
// goroutine and is not safe for concurrent use.
type deque struct {
	records []Record
	head    int
	count   int
}

const dequeMinCapacity = 16

// Len returns the number of buffered records
func (d *deque) Len() int {
	return d.count
}

// PushBack appends a record at the tail, growing the ring if full
func (d *deque) PushBack(r Record) {
	if d.count == len(d.records) {
		d.grow()
	}
	d.records[(d.head+d.count)%len(d.records)] = r
	d.count++
}

// PopFront removes and returns the head record
func (d *deque) PopFront() (Record, bool) {
	if d.count == 0 {
		return Record{}, false
	}
	r := d.records[d.head]
	d.records[d.head] = Record{}
	d.head = (d.head + 1) % len(d.records)
	d.count--
	return r, true
}

// PopBack removes and returns the tail record
func (d *deque) PopBack() (Record, bool) {
	if d.count == 0 {
		return Record{}, false
	}
	i := (d.head + d.count - 1) % len(d.records)
	r := d.records[i]
	d.records[i] = Record{}
	d.count--
	return r, true
}

// At returns the record at position i in delivery order
func (d *deque) At(i int) Record {
	return d.records[(d.head+i)%len(d.records)]
}

// Clear discards all buffered records
func (d *deque) Clear() {
	d.records = nil
	d.head = 0
	d.count = 0
}

// grow doubles the backing slice, unwrapping the ring so the head
// lands at index zero
func (d *deque) grow() {
	capacity := len(d.records) * 2
	if capacity < dequeMinCapacity {
		capacity = dequeMinCapacity
	}
	records := make([]Record, capacity)
	for i := 0; i < d.count; i++ {
		records[i] = d.records[(d.head+i)%len(d.records)]
	}
	d.records = records
	d.head = 0
}

// dropBelow removes every record with a level strictly below min,
// preserving the relative order of survivors. Returns the number of
// records removed.
func (d *deque) dropBelow(min int64) int {
	if d.count == 0 {
		return 0
	}
	kept := make([]Record, 0, d.count)
	for i := 0; i < d.count; i++ {
		if r := d.At(i); r.Level >= min {
			kept = append(kept, r)
		}
	}
	removed := d.count - len(kept)
	if removed > 0 {
		d.records = kept
		d.head = 0
		d.count = len(kept)
	}
	return removed
}

// cutMiddle keeps the first keep and last keep records in delivery
// order and discards everything between them. The tail segment retains
// its original relative order. Returns the number of records removed.
func (d *deque) cutMiddle(keep int) int {
	if keep < 0 || d.count <= 2*keep {
		return 0
	}
	kept := make([]Record, 0, 2*keep)
	for i := 0; i < keep; i++ {
		kept = append(kept, d.At(i))
	}
	for i := d.count - keep; i < d.count; i++ {
		kept = append(kept, d.At(i))
	}
	removed := d.count - len(kept)
	d.records = kept
	d.head = 0
	d.count = len(kept)
	return removed
}
