// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the
// cloud-console binaries: fatal error reporting to stderr before the
// structured logger exists, structured logger construction, and the
// drain-then-exit path used when the underlying console feed is lost
// (the process lingers briefly so attached consumers can observe the
// final buffered state before shutdown).
package process
