// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates the structured logger for a cloud-console binary.
// When stderr is a terminal it uses slog.TextHandler for
// human-readable output; when stderr is piped or redirected (systemd,
// scripts, CI) it uses slog.JSONHandler for machine-parseable output.
//
// Callers scope the logger with component context via With():
//
//	logger := process.NewLogger().With("component", "web")
func NewLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
