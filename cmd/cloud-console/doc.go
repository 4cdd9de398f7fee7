// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

// Cloud-console serves an interactive web terminal connected to a
// pseudo-terminal. It relays console output to any number of browser
// and CLI consumers, keeping a bounded tail of history so a consumer
// joining late is caught up before receiving live data.
//
// The console source is either an existing PTY device:
//
//	cloud-console --pty /dev/pts/3 --listen 0.0.0.0:8080
//
// or a command spawned on a freshly allocated PTY pair (the only mode
// supporting resize):
//
//	cloud-console --command "/bin/bash -l" --listen 127.0.0.1:8080
//
// An optional log file receives the buffered history and all live
// output alongside the connected consumers:
//
//	cloud-console --pty /dev/pts/3 --log-file /var/log/console.log
//
// Settings may also come from a YAML file via --config or the
// CLOUD_CONSOLE_CONFIG environment variable; flags override the file.
//
// Loss of the console feed is fatal: the process logs the failure,
// lingers for the configured drain delay so consumers can observe the
// final buffered state, and exits with code 2.
package main
