// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package console

// DefaultBufferSize is the default ring buffer capacity in bytes.
// Sized for roughly 2000 rows of 80 columns: a column can take up to
// 4 bytes (unicode), but most rows are only partially filled, so 40
// bytes per row on average is plenty.
const DefaultBufferSize = 80 / 2 * 2000

// RingBuffer is a fixed-capacity circular store of the most recent
// bytes written to the console. It is intentionally dumb: it tracks an
// amount of data, not lines or rows, and it is up to the caller to
// guess how much buffer space is needed for the desired history.
//
// Cells that have never been written hold their zero value and are
// indistinguishable from written zero bytes. A snapshot of a fresh
// buffer is therefore capacity zero bytes, not an empty slice. This is
// an accepted quirk, not an error condition.
//
// RingBuffer has no locking of its own. The owning Mux serializes all
// access together with its subscriber registry so the head/store pair
// and the registry membership are always observed consistently.
type RingBuffer struct {
	data     []byte
	capacity int
	// head is the next write position, 0 <= head < capacity.
	head int
}

// NewRingBuffer creates a zeroed ring buffer with the given capacity
// in bytes. The capacity is fixed for the buffer's lifetime.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		data:     make([]byte, capacity),
		capacity: capacity,
	}
}

// Write stores data in the buffer, overwriting the oldest bytes. A
// single write larger than the capacity is truncated to its own
// trailing capacity bytes before touching the buffer. Write never
// fails and never blocks.
func (ring *RingBuffer) Write(data []byte) {
	// Only keep the bytes that can actually land in the buffer.
	if len(data) > ring.capacity {
		data = data[len(data)-ring.capacity:]
	}

	// Copy from head to the end of the buffer, then wrap whatever is
	// left to the start. At most two contiguous copies.
	remainder := ring.capacity - ring.head
	toWrite := len(data)
	if toWrite > remainder {
		toWrite = remainder
	}
	copy(ring.data[ring.head:ring.head+toWrite], data[:toWrite])
	if len(data) > remainder {
		copy(ring.data[:len(data)-remainder], data[toWrite:])
	}

	ring.head = (ring.head + len(data)) % ring.capacity
}

// Snapshot returns a copy of the buffer contents in chronological
// order: the segment from head to the end of the store, followed by
// the segment from the start of the store to head. The result is
// always exactly capacity bytes. This is what a newly attached
// consumer must receive to be caught up.
func (ring *RingBuffer) Snapshot() []byte {
	out := make([]byte, ring.capacity)
	n := copy(out, ring.data[ring.head:])
	copy(out[n:], ring.data[:ring.head])
	return out
}

// segments returns the two chronological slices of the buffer without
// copying. The slices alias the store: callers must finish with them
// before the next Write, which in practice means while holding the
// owning Mux's lock.
func (ring *RingBuffer) segments() (first, second []byte) {
	return ring.data[ring.head:], ring.data[:ring.head]
}
