// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// pingInterval is how often the write pump pings an idle
	// connection to detect silent disconnects.
	pingInterval = 30 * time.Second

	// pongWait bounds how long a connection may stay silent before
	// the read side gives up on it.
	pongWait = 60 * time.Second

	// writeTimeout bounds a single WebSocket write.
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	// The console is meant to be reachable from wherever the operator
	// runs a browser; access control is the surrounding deployment's
	// concern (the reference deployment binds to a management network).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades the connection and attaches it to the
// console mux: the buffered history arrives first as binary messages,
// then live payloads as they are written. Input messages flow the
// other way, into the console input channel.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	// The pump must be consuming before AttachChannel delivers the
	// snapshot: the snapshot sends block when they exceed the queue
	// capacity.
	payloads := make(chan []byte, s.queueCapacity)
	gone := make(chan struct{})
	go s.writePump(conn, payloads, gone)

	if err := s.mux.AttachChannel(payloads, gone); err != nil {
		s.logger.Warn("websocket attach aborted", "remote", r.RemoteAddr, "error", err)
		conn.Close()
		return
	}
	s.logger.Info("websocket consumer attached", "remote", r.RemoteAddr)

	go s.readPump(conn)
}

// writePump owns the write side of one WebSocket connection. It frames
// every queued payload as a binary message and pings during idle
// stretches. The first failed write ends the pump permanently: the
// deferred close of the gone channel is what the mux observes as the
// consumer's departure on its next fan-out pass.
func (s *Server) writePump(conn *websocket.Conn, payloads <-chan []byte, gone chan<- struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
		close(gone)
	}()

	for {
		select {
		case payload := <-payloads:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
				s.logger.Info("websocket consumer gone", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump owns the read side of one WebSocket connection, forwarding
// binary and text messages verbatim into the console input channel.
// Closing the connection on exit makes the write pump's next write
// fail, which in turn marks the subscriber gone.
func (s *Server) readPump(conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info("websocket read ended", "error", err)
			}
			return
		}
		s.input <- data
	}
}
