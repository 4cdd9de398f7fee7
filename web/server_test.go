// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/threefoldtech/cloud-console/console"
)

// newTestServer builds a web server over a fresh mux and returns both
// with the backing httptest server.
func newTestServer(t *testing.T, resize func(columns, rows uint16) error) (*console.Mux, chan []byte, *httptest.Server) {
	t.Helper()
	mux := console.New(16, 8, nil)
	input := make(chan []byte, 8)
	server := New(Config{
		Mux:           mux,
		Input:         input,
		QueueCapacity: 8,
		Resize:        resize,
	})
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return mux, input, ts
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	mux, _, ts := newTestServer(t, nil)
	mux.WriteData([]byte("12345678"))

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type: got %q, want application/json", got)
	}

	var stats console.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if stats.BytesRelayed != 8 {
		t.Errorf("bytes_relayed: got %d, want 8", stats.BytesRelayed)
	}
	if stats.Subscribers != 0 {
		t.Errorf("subscribers: got %d, want 0", stats.Subscribers)
	}
}

func TestResizeApplied(t *testing.T) {
	t.Parallel()
	var gotColumns, gotRows uint16
	_, _, ts := newTestServer(t, func(columns, rows uint16) error {
		gotColumns, gotRows = columns, rows
		return nil
	})

	resp, err := http.Post(ts.URL+"/resize", "application/json",
		strings.NewReader(`{"cols":120,"rows":40}`))
	if err != nil {
		t.Fatalf("POST /resize: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", resp.StatusCode)
	}
	if gotColumns != 120 || gotRows != 40 {
		t.Errorf("resize applied %dx%d, want 120x40", gotColumns, gotRows)
	}
}

func TestResizeValidation(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t, func(columns, rows uint16) error { return nil })

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"cols":`, http.StatusBadRequest},
		{"zero columns", `{"cols":0,"rows":24}`, http.StatusBadRequest},
		{"zero rows", `{"cols":80,"rows":0}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := http.Post(ts.URL+"/resize", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST /resize: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestResizeConflictInDeviceMode(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/resize", "application/json",
		strings.NewReader(`{"cols":80,"rows":24}`))
	if err != nil {
		t.Fatalf("POST /resize: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status: got %d, want 409", resp.StatusCode)
	}
}

func TestResizeFailure(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t, func(columns, rows uint16) error {
		return errors.New("pty gone")
	})

	resp, err := http.Post(ts.URL+"/resize", "application/json",
		strings.NewReader(`{"cols":80,"rows":24}`))
	if err != nil {
		t.Fatalf("POST /resize: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", resp.StatusCode)
	}
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !strings.Contains(body.String(), "cloud console") {
		t.Error("index page should contain the console title")
	}
}

func TestStaticAssetNotFound(t *testing.T) {
	t.Parallel()
	_, _, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/no-such-asset.js")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
