// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/rs/zerolog"
)

const (
	operationIDHeader = "X-Operation-Id"
	executionIDHeader = "X-Execution-Id"
)

// withOperationID assigns every request its own id, returned in the
// X-Operation-Id header, and puts a child logger carrying it (and the
// client's execution id when sent) into the request context.
func (h *Handler) withOperationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operationID := h.ids.Generate()

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			c = c.Str("operation_id", operationID)
			if executionID := r.Header.Get(executionIDHeader); executionID != "" {
				c = c.Str("execution_id", executionID)
			}
			return c
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(operationIDHeader, operationID)
		next.ServeHTTP(w, r)
	})
}
