// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/threefoldtech/cloud-console/lib/process"
)

// detachByte ends the session from the local side. Ctrl-] matches the
// telnet escape most operators already know.
const detachByte = 0x1d

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		process.Fatal(err)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("cloud-console-attach", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cloud-console-attach [flags] <ws-url>\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one websocket URL argument, got %d", flags.NArg())
	}

	target, err := url.Parse(flags.Arg(0))
	if err != nil {
		return fmt.Errorf("parsing server URL: %w", err)
	}
	if target.Scheme != "ws" && target.Scheme != "wss" {
		return fmt.Errorf("server URL must use the ws or wss scheme, got %q", target.Scheme)
	}

	conn, _, err := websocket.DefaultDialer.Dial(target.String(), nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", target, err)
	}
	defer conn.Close()

	stdin := int(os.Stdin.Fd())
	var restore func()
	if term.IsTerminal(stdin) {
		state, err := term.MakeRaw(stdin)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		restore = func() { term.Restore(stdin, state) }
		defer restore()
	}

	// Push the current window size immediately, then on every SIGWINCH.
	resizeURL := resizeEndpoint(target)
	if term.IsTerminal(stdin) {
		sendResize(resizeURL, stdin)
		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		defer signal.Stop(winch)
		go func() {
			for range winch {
				sendResize(resizeURL, stdin)
			}
		}()
	}

	done := make(chan error, 2)

	// Server → local terminal.
	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				done <- fmt.Errorf("reading from server: %w", err)
				return
			}
			if _, err := os.Stdout.Write(payload); err != nil {
				done <- fmt.Errorf("writing to terminal: %w", err)
				return
			}
		}
	}()

	// Local keystrokes → server, watching for the detach byte.
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				done <- fmt.Errorf("reading from terminal: %w", err)
				return
			}
			chunk := buf[:n]
			if i := bytes.IndexByte(chunk, detachByte); i >= 0 {
				if i > 0 {
					conn.WriteMessage(websocket.BinaryMessage, chunk[:i])
				}
				done <- nil
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				done <- fmt.Errorf("writing to server: %w", err)
				return
			}
		}
	}()

	err = <-done
	if restore != nil {
		restore()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "detached")
	return nil
}

// resizeEndpoint maps the websocket URL onto the server's resize
// endpoint: ws://host/ws becomes http://host/resize.
func resizeEndpoint(ws *url.URL) string {
	u := *ws
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path = "/resize"
	return u.String()
}

func sendResize(endpoint string, fd int) {
	columns, rows, err := term.GetSize(fd)
	if err != nil {
		return
	}
	body, err := json.Marshal(map[string]int{"cols": columns, "rows": rows})
	if err != nil {
		return
	}
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	resp.Body.Close()
}
