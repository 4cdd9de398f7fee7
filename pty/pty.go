// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package pty

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Open opens an existing PTY device for serving. The device is opened
// twice, once read-only and once write-only: opening it read-write and
// sharing the handle between the output and input pumps has been
// observed to deadlock.
func Open(path string) (reader, writer *os.File, err error) {
	reader, err = os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("opening pty %s for reading: %w", path, err)
	}
	writer, err = os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		reader.Close()
		return nil, nil, fmt.Errorf("opening pty %s for writing: %w", path, err)
	}
	return reader, writer, nil
}

// Start allocates a PTY pair and spawns the command with the slave as
// its controlling terminal. The returned master carries both the
// command's output (reads) and its input (writes). The caller must
// Wait on the returned command to collect its exit status; when the
// command exits, reads on the master fail, which the caller observes
// as loss of the console feed.
func Start(name string, args ...string) (master *os.File, cmd *exec.Cmd, err error) {
	master, slavePath, err := openPTY()
	if err != nil {
		return nil, nil, fmt.Errorf("allocating pty: %w", err)
	}

	slave, err := os.OpenFile(slavePath, os.O_RDWR, 0)
	if err != nil {
		master.Close()
		return nil, nil, fmt.Errorf("opening pty slave %s: %w", slavePath, err)
	}

	cmd = exec.Command(name, args...)
	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0, // fd 0 in child = slave PTY
	}

	if err := cmd.Start(); err != nil {
		slave.Close()
		master.Close()
		return nil, nil, fmt.Errorf("starting %s: %w", name, err)
	}
	// Close slave in parent — the child has its own copy via fd 0/1/2.
	slave.Close()

	return master, cmd, nil
}

// openPTY allocates a PTY master/slave pair using the Linux devpts
// interface. Returns the master as an *os.File and the filesystem path
// to the slave.
func openPTY() (master *os.File, slavePath string, err error) {
	master, err = os.OpenFile("/dev/ptmx", os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, "", fmt.Errorf("opening /dev/ptmx: %w", err)
	}

	fd := int(master.Fd())

	ptyNumber, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, "", fmt.Errorf("getting PTY number (TIOCGPTN): %w", err)
	}

	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, "", fmt.Errorf("unlocking PTY slave (TIOCSPTLCK): %w", err)
	}

	slavePath = fmt.Sprintf("/dev/pts/%d", ptyNumber)
	return master, slavePath, nil
}

// Resize sets the terminal dimensions on a PTY master using
// TIOCSWINSZ. This propagates SIGWINCH to the foreground process group
// attached to the slave side. Only meaningful in command mode, where
// this process owns the master.
func Resize(master *os.File, columns, rows uint16) error {
	winsize := &unix.Winsize{
		Col: columns,
		Row: rows,
	}
	if err := unix.IoctlSetWinsize(int(master.Fd()), unix.TIOCSWINSZ, winsize); err != nil {
		return fmt.Errorf("setting window size to %dx%d: %w", columns, rows, err)
	}
	return nil
}
