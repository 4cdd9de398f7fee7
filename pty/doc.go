// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package pty connects the console mux to a pseudo-terminal. It can
// serve an existing PTY device ([Open]) or spawn a command on a
// freshly allocated PTY pair ([Start]), and provides the two pump
// loops bridging the device and the mux: [Pump] for terminal output
// and [Feed] for consumer input.
//
// Both pumps treat an I/O error on the device as the loss of the
// upstream feed and return it to the caller; recovery is outside this
// package's authority. The binary escalates it to a fatal exit after a
// drain delay.
package pty
