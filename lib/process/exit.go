// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// DefaultDrainDelay is how long FatalAfterDrain waits before exiting.
// Long enough for attached consumers to receive the final buffered
// console state, short enough that a supervisor notices the failure
// promptly.
const DefaultDrainDelay = 5 * time.Second

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// FatalAfterDrain logs the loss of the upstream console feed, sleeps
// for the drain delay so already-attached consumers can catch up on
// the final buffered state, and exits with code 2. A non-positive
// delay falls back to DefaultDrainDelay.
func FatalAfterDrain(logger *slog.Logger, err error, delay time.Duration) {
	if delay <= 0 {
		delay = DefaultDrainDelay
	}
	logger.Error("console feed lost, exiting after drain delay", "error", err, "delay", delay)
	time.Sleep(delay)
	os.Exit(2)
}
