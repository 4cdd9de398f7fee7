// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package web serves the browser-facing side of cloud-console: the
// WebSocket endpoint bridging connections onto the console mux, the
// embedded frontend assets, a resize control endpoint, and a health
// endpoint.
//
// A WebSocket connection is attached to the mux through a payload
// channel and a write pump goroutine: the mux queues shared payloads
// on the channel, the pump frames them as binary WebSocket messages.
// The pump closing its gone channel is how the mux observes the
// consumer's departure. Input messages from the connection (binary or
// text) are forwarded verbatim to the console input channel.
package web
