// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/threefoldtech/cloud-console/console"
)

// Config carries the collaborators the web server bridges between.
type Config struct {
	// Mux is the console mux consumers are attached to.
	Mux *console.Mux

	// Input receives consumer keystrokes destined for the console
	// device. Sends block when the write backlog is full.
	Input chan<- []byte

	// QueueCapacity is the per-connection outbound queue capacity in
	// payloads. Zero selects console.DefaultQueueCapacity.
	QueueCapacity int

	// Resize applies new terminal dimensions. Nil when the served
	// console cannot be resized (device mode); the resize endpoint
	// then reports a conflict.
	Resize func(columns, rows uint16) error

	// Logger receives connection lifecycle events. Nil discards them.
	Logger *slog.Logger
}

// Server is the HTTP surface of cloud-console.
type Server struct {
	mux           *console.Mux
	input         chan<- []byte
	queueCapacity int
	resize        func(columns, rows uint16) error
	logger        *slog.Logger
}

// New creates a web server over the given collaborators.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	queueCapacity := cfg.QueueCapacity
	if queueCapacity <= 0 {
		queueCapacity = console.DefaultQueueCapacity
	}
	return &Server{
		mux:           cfg.Mux,
		input:         cfg.Input,
		queueCapacity: queueCapacity,
		resize:        cfg.Resize,
		logger:        logger,
	}
}

// Handler returns the HTTP handler with all routes configured. Static
// assets are served gzip-compressed when the client accepts it.
func (s *Server) Handler() http.Handler {
	routes := http.NewServeMux()
	routes.HandleFunc("/ws", requireMethod(http.MethodGet, s.handleWebSocket))
	routes.HandleFunc("/healthz", requireMethod(http.MethodGet, s.handleHealth))
	routes.HandleFunc("/resize", requireMethod(http.MethodPost, s.handleResize))
	routes.Handle("/", gzhttp.GzipHandler(staticHandler()))
	return routes
}

// requireMethod restricts a route to one HTTP method, matching the
// behavior of Go 1.22's method-qualified ServeMux patterns on the
// Go 1.21 toolchain this module is built with.
func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.mux.Stats()); err != nil {
		s.logger.Warn("writing health response", "error", err)
	}
}

// resizeRequest is the JSON body of a resize control request.
type resizeRequest struct {
	Columns uint16 `json:"cols"`
	Rows    uint16 `json:"rows"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	if s.resize == nil {
		http.Error(w, "console is not resizable (serving an existing pty device)", http.StatusConflict)
		return
	}

	var request resizeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "invalid resize request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Columns == 0 || request.Rows == 0 {
		http.Error(w, "cols and rows must be positive", http.StatusBadRequest)
		return
	}

	if err := s.resize(request.Columns, request.Rows); err != nil {
		s.logger.Warn("resize failed", "cols", request.Columns, "rows", request.Rows, "error", err)
		http.Error(w, "resize failed", http.StatusInternalServerError)
		return
	}

	s.logger.Info("console resized", "cols", request.Columns, "rows", request.Rows)
	w.WriteHeader(http.StatusNoContent)
}
