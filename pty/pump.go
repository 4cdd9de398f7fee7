// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package pty

import (
	"fmt"
	"io"

	"github.com/threefoldtech/cloud-console/console"
)

// ReadBufferSize is the size of the read buffer used by Pump. Terminal
// output arrives in small bursts; 4 KB comfortably covers a full
// redraw without fragmenting it across many mux writes.
const ReadBufferSize = 4096

// Pump copies terminal output from the device into the mux until a
// read error occurs. Any bytes read before the error are still
// delivered. The returned error is never nil: the device read failing
// (including EOF and the EIO a PTY master reports when the slave side
// closes) means the console feed is gone.
func Pump(reader io.Reader, mux *console.Mux) error {
	buffer := make([]byte, ReadBufferSize)
	for {
		n, err := reader.Read(buffer)
		if n > 0 {
			mux.WriteData(buffer[:n])
		}
		if err != nil {
			return fmt.Errorf("reading from pty: %w", err)
		}
	}
}

// Feed drains the input channel into the device's write handle,
// delivering consumer keystrokes to the terminal. It returns nil when
// the channel is closed, or the write error that ended the loop; a
// failed device write means the console is gone.
func Feed(writer io.Writer, input <-chan []byte) error {
	for data := range input {
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("forwarding input to pty: %w", err)
		}
	}
	return nil
}
