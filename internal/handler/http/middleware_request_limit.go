// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
)

// withRequestLimit consults the configured [RequestLimiter]. It must run
// after auth so that the user id is known.
func (h *Handler) withRequestLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, _ := utils.GetUserIDFromContext(r.Context())
		retryAfter, ok := h.limiter.Allow(userID)
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		if retryAfter > 0 {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		logger.FromRequest(r).Info().Str("user_id", userID).Dur("retry_after", retryAfter).Msg("request limit exceeded")
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
	})
}
