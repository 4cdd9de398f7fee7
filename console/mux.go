// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// DefaultQueueCapacity is the default per-subscriber queue capacity in
// payloads. A subscriber that falls this many writes behind starts
// losing data.
const DefaultQueueCapacity = 1000

// ErrSinkClosed is returned by AttachChannel when the sink's closed
// channel fires before the snapshot is fully delivered.
var ErrSinkClosed = errors.New("console: sink closed during snapshot delivery")

// Mux multiplexes a single console byte stream to multiple outputs. It
// retains the most recent bytes in a ring buffer so a consumer that
// attaches late is served the buffered history before live data.
//
// Fan-out is non-blocking with a per-subscriber drop policy: a
// subscriber whose queue is full at the moment of a write silently
// loses that payload, without affecting the producer or any other
// subscriber. A subscriber whose consuming side is gone is removed
// from the registry, lazily, on the next write's fan-out pass. If no
// further writes occur a dead entry can linger indefinitely; the
// staleness is bounded by write frequency in practice.
//
// All methods are safe for concurrent use. A single mutex owns the
// ring buffer and the subscriber registry as a unit.
type Mux struct {
	logger        *slog.Logger
	queueCapacity int

	mu   sync.Mutex
	ring *RingBuffer
	subs []*subscriber
	// totalWritten is the total number of bytes ever passed to
	// WriteData, for operator visibility. Not a delivery guarantee.
	totalWritten uint64
}

// sendResult is the outcome of one non-blocking enqueue attempt during
// a fan-out pass.
type sendResult int

const (
	// sendDelivered: the payload is queued for the subscriber.
	sendDelivered sendResult = iota
	// sendDroppedQueueFull: the subscriber's queue was full, the
	// payload is dropped for this subscriber only. Backpressure, not
	// an error, and not a state change.
	sendDroppedQueueFull
	// sendConsumerGone: the consuming side is gone. Terminal; the
	// subscriber is excised from the registry.
	sendConsumerGone
)

// subscriber is one consumer of the broadcast stream: the send side of
// a bounded payload queue plus a channel that fires when the consuming
// side is gone. The receive side of the queue is exclusively owned by
// the subscriber's forwarding goroutine (or by the external bridge for
// AttachChannel subscribers); no queue is shared between consumers.
type subscriber struct {
	queue  chan<- []byte
	closed <-chan struct{}
}

// trySend attempts a non-blocking enqueue of the shared payload.
func (sub *subscriber) trySend(payload []byte) sendResult {
	select {
	case <-sub.closed:
		return sendConsumerGone
	default:
	}
	select {
	case sub.queue <- payload:
		return sendDelivered
	case <-sub.closed:
		return sendConsumerGone
	default:
		return sendDroppedQueueFull
	}
}

// New creates a Mux with the given ring buffer capacity and
// per-subscriber queue capacity. Both are fixed for the Mux's
// lifetime; pass DefaultBufferSize and DefaultQueueCapacity for the
// standard sizes. A nil logger discards subscriber lifecycle logs.
func New(bufferSize, queueCapacity int, logger *slog.Logger) *Mux {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mux{
		logger:        logger,
		queueCapacity: queueCapacity,
		ring:          NewRingBuffer(bufferSize),
	}
}

// WriteData writes console output to the Mux. The trailing bytes are
// retained in the ring buffer for future subscribers, and the payload
// is fanned out to every current subscriber with a non-blocking
// enqueue. WriteData never blocks on subscriber I/O: its only
// suspension point is the Mux lock, a fast memory-only critical
// section.
func (mux *Mux) WriteData(data []byte) {
	mux.mu.Lock()
	defer mux.mu.Unlock()

	mux.ring.Write(data)
	mux.totalWritten += uint64(len(data))

	// Check for subscribers before copying the payload. This avoids a
	// heap allocation when nobody is listening.
	if len(mux.subs) == 0 {
		return
	}

	// One shared copy for all subscribers. The payload is immutable by
	// contract: consumers must not modify it.
	payload := make([]byte, len(data))
	copy(payload, data)

	// Fan out, retaining only subscribers whose consuming side is
	// still there. A full queue is a drop, not a removal.
	kept := mux.subs[:0]
	for _, sub := range mux.subs {
		if sub.trySend(payload) == sendConsumerGone {
			continue
		}
		kept = append(kept, sub)
	}
	for i := len(kept); i < len(mux.subs); i++ {
		mux.subs[i] = nil
	}
	mux.subs = kept
}

// Attach registers a transport to receive console data. The current
// ring buffer contents are written to the transport synchronously, in
// chronological order, before the transport is registered for live
// data: a subscriber never sees live updates while missing part of its
// history. If either snapshot write fails the attach is aborted
// entirely and no subscriber state is left behind.
//
// On success a forwarding goroutine drains the subscriber's queue and
// writes each payload to the transport sequentially. The first write
// failure stops the goroutine permanently; there is no retry and no
// re-enqueue. The failure is how the Mux later observes the subscriber
// as gone — the entry is excised on a subsequent write's fan-out pass.
//
// The snapshot write happens while holding the Mux lock, so a slow
// transport delays concurrent writes and attaches. This mirrors the
// fan-out ordering guarantee at the price of producer latency under
// many simultaneous attaches.
func (mux *Mux) Attach(transport io.Writer) error {
	mux.mu.Lock()
	defer mux.mu.Unlock()

	first, second := mux.ring.segments()
	if _, err := transport.Write(first); err != nil {
		return fmt.Errorf("writing first snapshot segment: %w", err)
	}
	if len(second) > 0 {
		if _, err := transport.Write(second); err != nil {
			return fmt.Errorf("writing second snapshot segment: %w", err)
		}
	}

	queue := make(chan []byte, mux.queueCapacity)
	closed := make(chan struct{})
	mux.subs = append(mux.subs, &subscriber{queue: queue, closed: closed})

	go mux.forward(queue, closed, transport)

	return nil
}

// forward is the per-subscriber forwarding goroutine: it dequeues the
// next payload, blocking while the queue is empty, and writes it to
// the transport. Transport failure is one-way and non-recoverable for
// this subscriber.
func (mux *Mux) forward(queue <-chan []byte, closed chan<- struct{}, transport io.Writer) {
	for payload := range queue {
		if _, err := transport.Write(payload); err != nil {
			mux.logger.Warn("dropping console subscriber after write failure", "error", err)
			close(closed)
			return
		}
	}
}

// AttachChannel registers a caller-owned channel to receive console
// data, for transports that frame messages rather than accepting raw
// byte writes. The contract is identical to Attach: the two snapshot
// segments are sent on the channel, blocking until queued, before the
// channel is registered for live data, and a failure aborts the attach
// with no registration.
//
// The closed channel is how the caller signals that the consuming side
// is gone: the Mux treats it as a terminal send failure during both
// snapshot delivery and live fan-out. The caller must close it exactly
// once and must never close the sink itself.
//
// Payloads sent on the sink are shared and immutable: the receiver
// must not modify them.
func (mux *Mux) AttachChannel(sink chan<- []byte, closed <-chan struct{}) error {
	mux.mu.Lock()
	defer mux.mu.Unlock()

	first, second := mux.ring.segments()
	if err := sendSegment(sink, closed, first); err != nil {
		return fmt.Errorf("sending first snapshot segment: %w", err)
	}
	if err := sendSegment(sink, closed, second); err != nil {
		return fmt.Errorf("sending second snapshot segment: %w", err)
	}

	mux.subs = append(mux.subs, &subscriber{queue: sink, closed: closed})
	return nil
}

// sendSegment copies one snapshot segment and sends it on the sink,
// blocking until the send is queued or the sink reports closure. The
// copy is required: the segment aliases the ring buffer store, which
// mutates as soon as the Mux lock is released.
func sendSegment(sink chan<- []byte, closed <-chan struct{}, segment []byte) error {
	payload := make([]byte, len(segment))
	copy(payload, segment)
	select {
	case sink <- payload:
		return nil
	case <-closed:
		return ErrSinkClosed
	}
}

// Stats is a point-in-time view of the Mux for operator visibility.
type Stats struct {
	// Subscribers is the number of registry entries, including dead
	// subscribers not yet excised by a fan-out pass.
	Subscribers int `json:"subscribers"`

	// BytesRelayed is the total number of bytes ever written to the
	// Mux.
	BytesRelayed uint64 `json:"bytes_relayed"`
}

// Stats returns current Mux statistics.
func (mux *Mux) Stats() Stats {
	mux.mu.Lock()
	defer mux.mu.Unlock()
	return Stats{
		Subscribers:  len(mux.subs),
		BytesRelayed: mux.totalWritten,
	}
}
