// Copyright 2026 The Cloud Console Authors
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// frontendFS embeds the browser frontend so the binary is
// self-contained: a single file to drop on a machine, no asset
// directory to deploy alongside it.
//
//go:embed frontend
var frontendFS embed.FS

// staticHandler serves the embedded frontend. The file server handles
// index resolution for "/" and 404s for unknown paths.
func staticHandler() http.Handler {
	assets, err := fs.Sub(frontendFS, "frontend")
	if err != nil {
		// The subtree name matches the embed directive; failure here
		// means a broken build, not a runtime condition.
		panic(err)
	}
	return http.FileServer(http.FS(assets))
}
