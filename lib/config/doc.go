// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// cloud-console server.
//
// Configuration is loaded from a single file specified by either the
// CLOUD_CONSOLE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks, no ~/.config
// discovery, and no automatic file search: deterministic, auditable
// configuration with no hidden overrides. Command-line flags may
// override individual fields after loading; that merge happens in the
// binary, not here.
//
// All capacity values (ring buffer size, subscriber queue capacity,
// write backlog) are construction-time parameters: they take effect at
// startup and are immutable for the process lifetime.
package config
