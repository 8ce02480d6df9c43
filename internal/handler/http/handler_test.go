// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"testing"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Manifest ──

func TestManifest_EmptyStore(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/v1/manifest", nil, nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("ETag"))
	assert.Zero(t, rr.Body.Len())
}

func TestManifest_ListsLatestRefs(t *testing.T) {
	s := newTestServer(t)
	settingsRef := s.write(t, "/v1/resource/settings", `{"a":1}`, models.InitialRef)

	rr := s.do(http.MethodGet, "/v1/manifest", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var manifest models.Manifest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &manifest))
	assert.NotEmpty(t, manifest.Session)
	assert.Equal(t, settingsRef, manifest.Latest[models.SyncResourceSettings])
	assert.NotEmpty(t, rr.Header().Get("ETag"))
}

func TestManifest_NotModified(t *testing.T) {
	s := newTestServer(t)
	s.write(t, "/v1/resource/settings", `{}`, "")

	etag := s.do(http.MethodGet, "/v1/manifest", nil, nil).Header().Get("ETag")

	rr := s.do(http.MethodGet, "/v1/manifest", nil, header{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Equal(t, etag, rr.Header().Get("ETag"))

	s.write(t, "/v1/resource/tasks", `{}`, "")
	rr = s.do(http.MethodGet, "/v1/manifest", nil, header{"If-None-Match": etag})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, etag, rr.Header().Get("ETag"))
}

func TestManifest_SessionResetAfterDeletingEverything(t *testing.T) {
	s := newTestServer(t)
	s.write(t, "/v1/resource/settings", `{}`, "")

	var before models.Manifest
	require.NoError(t, json.Unmarshal(s.do(http.MethodGet, "/v1/manifest", nil, nil).Body.Bytes(), &before))

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/v1/resource", nil, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodGet, "/v1/manifest", nil, nil).Code)

	s.write(t, "/v1/resource/settings", `{}`, "")
	var after models.Manifest
	require.NoError(t, json.Unmarshal(s.do(http.MethodGet, "/v1/manifest", nil, nil).Body.Bytes(), &after))
	assert.NotEqual(t, before.Session, after.Session)
}

// ── Resources ──

func TestLatestResource(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/v1/resource/settings/latest", nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, models.InitialRef, rr.Header().Get("ETag"))

	ref := s.write(t, "/v1/resource/settings", `{"a":1}`, models.InitialRef)

	rr = s.do(http.MethodGet, "/v1/resource/settings/latest", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ref, rr.Header().Get("ETag"))
	assert.Equal(t, `{"a":1}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/v1/resource/settings/latest", nil, header{"If-None-Match": ref})
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Zero(t, rr.Body.Len())
}

func TestWriteResource_IfMatch(t *testing.T) {
	s := newTestServer(t)

	first := s.write(t, "/v1/resource/keybindings", `[]`, models.InitialRef)
	second := s.write(t, "/v1/resource/keybindings", `[{"key":"a"}]`, first)
	assert.NotEqual(t, first, second)

	rr := s.do(http.MethodPost, "/v1/resource/keybindings", []byte(`[{"key":"b"}]`), header{"If-Match": first})
	assert.Equal(t, http.StatusPreconditionFailed, rr.Code)
	assert.Contains(t, rr.Body.String(), app.MsgPreconditionFailed)

	latest := s.do(http.MethodGet, "/v1/resource/keybindings/latest", nil, nil)
	assert.Equal(t, `[{"key":"a"}]`, latest.Body.String())
}

func TestWriteResource_Rejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "unknown resource kind", path: "/v1/resource/extensions", body: "{}", wantStatus: http.StatusBadRequest},
		{name: "payload too large", path: "/v1/resource/settings", body: strings.Repeat("x", testMaxResourceSize+1), wantStatus: http.StatusRequestEntityTooLarge},
		{name: "unknown collection", path: "/v1/collection/missing/resource/settings", body: "{}", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(http.MethodPost, tt.path, []byte(tt.body), nil)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestResourceRefs(t *testing.T) {
	s := newTestServer(t)
	first := s.write(t, "/v1/resource/tasks", `{"v":1}`, "")
	second := s.write(t, "/v1/resource/tasks", `{"v":2}`, "")

	rr := s.do(http.MethodGet, "/v1/resource/tasks", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []resourceRefResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, second, path.Base(entries[0].URL))
	assert.Equal(t, first, path.Base(entries[1].URL))
	assert.True(t, strings.HasPrefix(entries[0].URL, "/v1/resource/tasks/"))

	rr = s.do(http.MethodGet, "/v1/resource/tasks/"+first, nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"v":1}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/resource/tasks/999", nil, nil).Code)
}

func TestDeleteResource(t *testing.T) {
	s := newTestServer(t)
	first := s.write(t, "/v1/resource/snippets", `{"a.json":"1"}`, "")
	s.write(t, "/v1/resource/snippets", `{"a.json":"2"}`, "")

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/v1/resource/snippets/"+first, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/resource/snippets/"+first, nil, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/v1/resource/snippets/latest", nil, nil).Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/v1/resource/snippets", nil, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodGet, "/v1/resource/snippets/latest", nil, nil).Code)
}

// ── Collections ──

func TestCollections(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/v1/collection", nil, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := rr.Body.String()
	require.NotEmpty(t, id)

	rr = s.do(http.MethodGet, "/v1/collection", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []collectionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Equal(t, []collectionResponse{{ID: id}}, listed)

	ref := s.write(t, "/v1/collection/"+id+"/resource/settings", `{"b":2}`, models.InitialRef)

	var manifest models.Manifest
	require.NoError(t, json.Unmarshal(s.do(http.MethodGet, "/v1/manifest", nil, nil).Body.Bytes(), &manifest))
	assert.Equal(t, ref, manifest.LatestRef(id, models.SyncResourceSettings))
	assert.Empty(t, manifest.LatestRef("", models.SyncResourceSettings))

	rr = s.do(http.MethodGet, "/v1/collection/"+id+"/resource/settings", nil, nil)
	var entries []resourceRefResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "/v1/collection/"+id+"/resource/settings/"+ref, entries[0].URL)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/v1/collection/"+id, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/collection/"+id+"/resource/settings/latest", nil, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodGet, "/v1/manifest", nil, nil).Code)
}

func TestDeleteAllCollections(t *testing.T) {
	s := newTestServer(t)
	s.write(t, "/v1/resource/settings", `{}`, "")
	for range 2 {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/v1/collection", nil, nil).Code)
	}

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/v1/collection", nil, nil).Code)

	rr := s.do(http.MethodGet, "/v1/collection", nil, nil)
	assert.JSONEq(t, `[]`, rr.Body.String())
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/v1/manifest", nil, nil).Code)
}

// ── Routing ──

func TestRouting_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPut, "/v1/manifest", nil, nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Contains(t, rr.Body.String(), app.MsgMethodNotFound)
}

func TestRouting_UnknownPath(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/v1/unknown", nil, nil).Code)
}

func TestRouting_OperationIDHeader(t *testing.T) {
	s := newTestServer(t)

	first := s.do(http.MethodGet, "/v1/manifest", nil, nil).Header().Get(operationIDHeader)
	second := s.do(http.MethodGet, "/v1/manifest", nil, nil).Header().Get(operationIDHeader)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestRouting_Version(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/version", nil, header{"Authorization": ""})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testVersion, rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
}
