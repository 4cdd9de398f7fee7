// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/threefoldtech/cloud-console/console"
)

// DefaultWriteBacklog is the default capacity of the channel buffering
// consumer input on its way to the console device. If more fragments
// than this are queued, new input from consumers blocks.
const DefaultWriteBacklog = 100

// Config is the configuration for the cloud-console server.
type Config struct {
	// Listen is the host:port the HTTP server binds to.
	Listen string `yaml:"listen"`

	// PTY is the path of an existing pseudo-terminal device to serve
	// (e.g. /dev/pts/3). Mutually exclusive with Command.
	PTY string `yaml:"pty"`

	// Command is a program to spawn on a freshly allocated PTY pair,
	// split on whitespace (no shell quoting). Mutually exclusive with
	// PTY. Only command mode supports resizing.
	Command string `yaml:"command"`

	// LogFile, when set, is attached to the console as an additional
	// output and receives the buffered history plus all live data.
	LogFile string `yaml:"log_file"`

	// BufferSize is the ring buffer capacity in bytes.
	BufferSize int `yaml:"buffer_size"`

	// QueueCapacity is the per-subscriber queue capacity in payloads.
	QueueCapacity int `yaml:"queue_capacity"`

	// WriteBacklog is the capacity of the consumer input channel.
	WriteBacklog int `yaml:"write_backlog"`

	// DrainDelay is how long the process lingers after losing the
	// console feed, so attached consumers can observe the final
	// buffered state. Parsed with time.ParseDuration (e.g. "5s").
	DrainDelay string `yaml:"drain_delay"`
}

// Default returns the default configuration. The defaults are a base
// for the config file and flag overrides; only a console source (PTY
// or Command) has no default and must be provided.
func Default() Config {
	return Config{
		Listen:        "127.0.0.1:8080",
		BufferSize:    console.DefaultBufferSize,
		QueueCapacity: console.DefaultQueueCapacity,
		WriteBacklog:  DefaultWriteBacklog,
		DrainDelay:    "5s",
	}
}

// Load loads configuration from the file named by the
// CLOUD_CONSOLE_CONFIG environment variable. There is no fallback: if
// the variable is not set, Load fails.
func Load() (Config, error) {
	path := os.Getenv("CLOUD_CONSOLE_CONFIG")
	if path == "" {
		return Config{}, fmt.Errorf("CLOUD_CONSOLE_CONFIG environment variable not set; " +
			"set it to the path of your config file, or use the --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging the
// file's values over the defaults. Environment variables do not
// override config values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid or missing values.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.PTY == "" && c.Command == "" {
		return fmt.Errorf("a console source is required: set pty or command")
	}
	if c.PTY != "" && c.Command != "" {
		return fmt.Errorf("pty and command are mutually exclusive")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.WriteBacklog <= 0 {
		return fmt.Errorf("write_backlog must be positive, got %d", c.WriteBacklog)
	}
	if _, err := c.DrainDelayDuration(); err != nil {
		return err
	}
	return nil
}

// DrainDelayDuration parses the DrainDelay field.
func (c Config) DrainDelayDuration() (time.Duration, error) {
	delay, err := time.ParseDuration(c.DrainDelay)
	if err != nil {
		return 0, fmt.Errorf("parsing drain_delay %q: %w", c.DrainDelay, err)
	}
	if delay < 0 {
		return 0, fmt.Errorf("drain_delay must not be negative, got %s", c.DrainDelay)
	}
	return delay, nil
}
