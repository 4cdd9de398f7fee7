// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for cloud-console
// packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls when
// exercising the mux's subscriber channels and forwarding goroutines.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
