// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("listen: got %q, want 127.0.0.1:8080", cfg.Listen)
	}
	if cfg.BufferSize != 80000 {
		t.Errorf("buffer_size: got %d, want 80000", cfg.BufferSize)
	}
	if cfg.QueueCapacity != 1000 {
		t.Errorf("queue_capacity: got %d, want 1000", cfg.QueueCapacity)
	}
	if cfg.WriteBacklog != 100 {
		t.Errorf("write_backlog: got %d, want 100", cfg.WriteBacklog)
	}
	delay, err := cfg.DrainDelayDuration()
	if err != nil {
		t.Fatalf("DrainDelayDuration: %v", err)
	}
	if delay != 5*time.Second {
		t.Errorf("drain_delay: got %s, want 5s", delay)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	orig, had := os.LookupEnv("CLOUD_CONSOLE_CONFIG")
	defer func() {
		if had {
			os.Setenv("CLOUD_CONSOLE_CONFIG", orig)
		}
	}()
	os.Unsetenv("CLOUD_CONSOLE_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("Load without CLOUD_CONSOLE_CONFIG should fail")
	}
	if !strings.Contains(err.Error(), "CLOUD_CONSOLE_CONFIG") {
		t.Errorf("error should name the environment variable, got %q", err)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "console.yaml")
	content := `
listen: 0.0.0.0:9000
pty: /dev/pts/7
buffer_size: 4096
drain_delay: 2s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("listen: got %q, want 0.0.0.0:9000", cfg.Listen)
	}
	if cfg.PTY != "/dev/pts/7" {
		t.Errorf("pty: got %q, want /dev/pts/7", cfg.PTY)
	}
	if cfg.BufferSize != 4096 {
		t.Errorf("buffer_size: got %d, want 4096", cfg.BufferSize)
	}
	// Fields absent from the file keep their defaults.
	if cfg.QueueCapacity != 1000 {
		t.Errorf("queue_capacity: got %d, want default 1000", cfg.QueueCapacity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("LoadFile on a missing file should fail")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen: [not, a, string"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile on malformed YAML should fail")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Default()
	valid.PTY = "/dev/pts/1"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no source", func(c *Config) { c.PTY = "" }, "console source"},
		{"both sources", func(c *Config) { c.Command = "/bin/bash" }, "mutually exclusive"},
		{"empty listen", func(c *Config) { c.Listen = "" }, "listen"},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }, "buffer_size"},
		{"negative queue", func(c *Config) { c.QueueCapacity = -1 }, "queue_capacity"},
		{"zero backlog", func(c *Config) { c.WriteBacklog = 0 }, "write_backlog"},
		{"bad drain delay", func(c *Config) { c.DrainDelay = "soon" }, "drain_delay"},
		{"negative drain delay", func(c *Config) { c.DrainDelay = "-1s" }, "drain_delay"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: unexpected error %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate: expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate: error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
