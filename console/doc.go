// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package console implements the replay-and-broadcast buffer at the
// heart of cloud-console: a fixed-capacity ring buffer of recent
// terminal output combined with a subscriber registry performing
// non-blocking fan-out.
//
// The package is organized around the data flow:
//
//   - ringbuffer.go: circular byte store for history replay
//   - mux.go: subscriber registry, fan-out drop policy, attach/replay
//
// A producer calls Mux.WriteData whenever new terminal output arrives.
// Transports call Mux.Attach (raw byte writers) or Mux.AttachChannel
// (message-framing bridges) when a consumer connects; the consumer
// receives the buffered history first, then every payload written
// after registration, subject to the per-subscriber drop policy.
//
// The core does not interpret the byte stream, does not guarantee
// delivery to an overloaded subscriber, and does not persist history.
package console
