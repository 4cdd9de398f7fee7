// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/threefoldtech/cloud-console/console"
	"github.com/threefoldtech/cloud-console/lib/config"
	"github.com/threefoldtech/cloud-console/lib/process"
	"github.com/threefoldtech/cloud-console/pty"
	"github.com/threefoldtech/cloud-console/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		process.Fatal(err)
	}
}

// buildConfig merges defaults, the optional config file, and flag
// overrides, in that order, and validates the result.
func buildConfig(args []string) (config.Config, error) {
	flags := pflag.NewFlagSet("cloud-console", pflag.ContinueOnError)
	configPath := flags.String("config", "", "path to a YAML config file")
	listen := flags.String("listen", "", "host:port the HTTP server binds to")
	ptyPath := flags.String("pty", "", "existing pty device to serve")
	command := flags.String("command", "", "command to spawn on a fresh pty (whitespace-split, no shell quoting)")
	logFile := flags.String("log-file", "", "file receiving console history and live output")
	bufferSize := flags.Int("buffer-size", 0, "ring buffer capacity in bytes")
	queueCapacity := flags.Int("queue-capacity", 0, "per-subscriber queue capacity in payloads")
	drainDelay := flags.String("drain-delay", "", "how long to linger after losing the console feed")

	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}
	if flags.NArg() > 0 {
		return config.Config{}, fmt.Errorf("unexpected argument: %s", flags.Arg(0))
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if flags.Changed("listen") {
		cfg.Listen = *listen
	}
	if flags.Changed("pty") {
		cfg.PTY = *ptyPath
	}
	if flags.Changed("command") {
		cfg.Command = *command
	}
	if flags.Changed("log-file") {
		cfg.LogFile = *logFile
	}
	if flags.Changed("buffer-size") {
		cfg.BufferSize = *bufferSize
	}
	if flags.Changed("queue-capacity") {
		cfg.QueueCapacity = *queueCapacity
	}
	if flags.Changed("drain-delay") {
		cfg.DrainDelay = *drainDelay
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(args []string) error {
	cfg, err := buildConfig(args)
	if err != nil {
		return err
	}
	logger := process.NewLogger()
	drainDelay, err := cfg.DrainDelayDuration()
	if err != nil {
		return err
	}

	mux := console.New(cfg.BufferSize, cfg.QueueCapacity, logger.With("component", "console"))

	var (
		reader io.Reader
		writer io.Writer
		resize func(columns, rows uint16) error
	)
	if cfg.Command != "" {
		argv := strings.Fields(cfg.Command)
		if len(argv) == 0 {
			return fmt.Errorf("command must not be blank")
		}
		master, child, err := pty.Start(argv[0], argv[1:]...)
		if err != nil {
			return err
		}
		reader, writer = master, master
		resize = func(columns, rows uint16) error {
			return pty.Resize(master, columns, rows)
		}
		logger.Info("console command started", "command", argv[0], "pid", child.Process.Pid)

		// Collect the child's exit status. The exit itself surfaces on
		// the relay path as a failed master read; this is purely for
		// operator visibility and to avoid a zombie.
		go func() {
			waitErr := child.Wait()
			logger.Info("console command exited", "command", argv[0], "wait", waitErr)
		}()
	} else {
		r, w, err := pty.Open(cfg.PTY)
		if err != nil {
			return err
		}
		reader, writer = r, w
		logger.Info("serving pty device", "pty", cfg.PTY)
	}

	// The log file is an ordinary subscriber: it gets the buffered
	// history first, then live data, and is silently dropped if it
	// ever fails.
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		if err := mux.Attach(file); err != nil {
			return fmt.Errorf("attaching log file: %w", err)
		}
		logger.Info("log file attached", "path", cfg.LogFile)
	}

	input := make(chan []byte, cfg.WriteBacklog)

	// Consumer input → console device.
	go func() {
		if err := pty.Feed(writer, input); err != nil {
			process.FatalAfterDrain(logger, err, drainDelay)
		}
	}()
	// Console output → mux → subscribers.
	go func() {
		process.FatalAfterDrain(logger, pty.Pump(reader, mux), drainDelay)
	}()

	server := web.New(web.Config{
		Mux:           mux,
		Input:         input,
		QueueCapacity: cfg.QueueCapacity,
		Resize:        resize,
		Logger:        logger.With("component", "web"),
	})

	logger.Info("cloud console listening", "address", cfg.Listen)
	return http.ListenAndServe(cfg.Listen, server.Handler())
}
