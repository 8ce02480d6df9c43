// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
)

// methodNotAllowed answers a known path requested with an unsupported method.
// Clients treat 405 as a bail-out, so the body names the failure.
func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	logger.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("method not allowed")

	http.Error(w, app.MsgMethodNotFound, http.StatusMethodNotAllowed)
}
