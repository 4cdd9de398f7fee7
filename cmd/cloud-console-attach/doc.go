// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// The cloud-console-attach command connects a local terminal to a
// running cloud-console server. It dials the server's websocket
// endpoint, puts the local terminal into raw mode, and relays bytes
// in both directions until the connection drops or the user presses
// Ctrl-] to detach.
//
//	cloud-console-attach ws://127.0.0.1:8080/ws
//
// While attached, terminal resizes are propagated to the server so
// the remote session tracks the local window size.
package main
