// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/go-chi/chi/v5"
)

type resourceRequest struct {
	userID     string
	collection string
	resource   models.SyncResource
}

func parseResourceRequest(r *http.Request) (resourceRequest, error) {
	resource, err := models.ParseSyncResource(chi.URLParam(r, "resource"))
	if err != nil {
		return resourceRequest{}, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err)
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	return resourceRequest{
		userID:     userID,
		collection: chi.URLParam(r, "collection"),
		resource:   resource,
	}, nil
}

// refURL is the location of one stored version, as listed by
// listResourceRefs.
func (req resourceRequest) refURL(ref string) string {
	p := "/v1/resource/" + url.PathEscape(req.resource.String()) + "/" + url.PathEscape(ref)
	if req.collection != "" {
		p = "/v1/collection/" + url.PathEscape(req.collection) + p[len("/v1"):]
	}
	return p
}

func (h *Handler) getLatestResource(w http.ResponseWriter, r *http.Request) {
	req, err := parseResourceRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stored, err := h.services.RemoteStoreService.LatestResource(r.Context(), req.userID, req.collection, req.resource)
	if errors.Is(err, service.ErrNoContent) {
		w.Header().Set("ETag", models.InitialRef)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("ETag", stored.Ref)
	if match := r.Header.Get("If-None-Match"); match != "" && match == stored.Ref {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	utils.WriteText(w, stored.Content, http.StatusOK)
}

func (h *Handler) getResource(w http.ResponseWriter, r *http.Request) {
	req, err := parseResourceRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ref := chi.URLParam(r, "ref")
	stored, err := h.services.RemoteStoreService.Resource(r.Context(), req.userID, req.collection, req.resource, ref)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("ETag", stored.Ref)
	if len(stored.Content) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.WriteText(w, stored.Content, http.StatusOK)
}

type resourceRefResponse struct {
	URL     string `json:"url"`
	Created int64  `json:"created"`
}

func (h *Handler) listResourceRefs(w http.ResponseWriter, r *http.Request) {
	req, err := parseResourceRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	refs, err := h.services.RemoteStoreService.ResourceRefs(r.Context(), req.userID, req.collection, req.resource)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]resourceRefResponse, 0, len(refs))
	for _, ref := range refs {
		resp = append(resp, resourceRefResponse{URL: req.refURL(ref.Ref), Created: ref.Created.Unix()})
	}
	utils.WriteJSON(w, resp, http.StatusOK)
}

// writeResource stores the request body as a new version. If-Match, when
// present, must equal the latest ref ("0" for a resource never written).
func (h *Handler) writeResource(w http.ResponseWriter, r *http.Request) {
	req, err := parseResourceRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: read body: %w", service.ErrInvalidDataProvided, err))
		return
	}

	ref, err := h.services.RemoteStoreService.WriteResource(r.Context(), req.userID, req.collection, req.resource,
		content, r.Header.Get("If-Match"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("ETag", ref)
	w.WriteHeader(http.StatusOK)
}

// deleteResource deletes the version named by {ref}, or every version when
// the route has no ref.
func (h *Handler) deleteResource(w http.ResponseWriter, r *http.Request) {
	req, err := parseResourceRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.services.RemoteStoreService.DeleteResource(r.Context(), req.userID, req.collection, req.resource,
		chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) deleteResources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	if err := h.services.RemoteStoreService.DeleteResources(ctx, userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
