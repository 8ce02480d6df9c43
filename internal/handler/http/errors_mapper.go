// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrNoUserID:                http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrResourceTooLarge:        http.StatusRequestEntityTooLarge,
	models.ErrUnknownSyncResource:      http.StatusBadRequest,

	store.ErrNotFound:           http.StatusNotFound,
	store.ErrCollectionNotFound: http.StatusNotFound,
	store.ErrPreconditionFailed: http.StatusPreconditionFailed,
}

var statusMessages = map[int]string{
	http.StatusBadRequest:            app.MsgInvalidDataProvided,
	http.StatusUnauthorized:          app.MsgTokenIsExpiredOrInvalid,
	http.StatusNotFound:              app.MsgResourceNotFound,
	http.StatusPreconditionFailed:    app.MsgPreconditionFailed,
	http.StatusRequestEntityTooLarge: app.MsgPayloadTooLarge,
	http.StatusMethodNotAllowed:      app.MsgMethodNotFound,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromStatus(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return app.MsgInternalServerError
}

// writeError answers with the status mapped from err. Internal failures are
// logged as errors, client mistakes at debug level.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status == http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	http.Error(w, messageFromStatus(status), status)
}
