// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
)

const clientVersionHeader = "X-Client-Version"

// withLogging writes one access line per store request. The conditional
// headers and the client version are added when sent.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		entry := logger.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Int("size", rw.size)
		addHeader(entry, "if_match", r.Header.Get("If-Match"))
		addHeader(entry, "if_none_match", r.Header.Get("If-None-Match"))
		addHeader(entry, "client_version", r.Header.Get(clientVersionHeader))
		entry.Send()
	})
}

func addHeader(e *zerolog.Event, key, value string) {
	if value != "" {
		e.Str(key, value)
	}
}
