// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/go-chi/chi/v5"
)

type collectionResponse struct {
	ID string `json:"id"`
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	ids, err := h.services.RemoteStoreService.Collections(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]collectionResponse, 0, len(ids))
	for _, id := range ids {
		resp = append(resp, collectionResponse{ID: id})
	}
	utils.WriteJSON(w, resp, http.StatusOK)
}

// createCollection answers with the new collection id as plain text.
func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	id, err := h.services.RemoteStoreService.CreateCollection(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteText(w, []byte(id), http.StatusCreated)
}

// deleteCollection deletes {collection}, or every collection when the route
// has none.
func (h *Handler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	if err := h.services.RemoteStoreService.DeleteCollection(ctx, userID, chi.URLParam(r, "collection")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
