// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-settings-sync/internal/utils"
)

// getManifest answers 304 when If-None-Match equals the current ref and 204
// when the user holds no data. The ETag is set in every case.
func (h *Handler) getManifest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	manifest, err := h.services.RemoteStoreService.Manifest(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("ETag", manifest.Ref)
	if match := r.Header.Get("If-None-Match"); match != "" && match == manifest.Ref {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if manifest.Session == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.WriteJSON(w, manifest, http.StatusOK)
}
