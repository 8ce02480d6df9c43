// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRequest creates a request whose context logger writes to buf, the
// same way withOperationID installs one.
func makeRequest(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	l := zerolog.New(buf).With().Timestamp().Logger()
	return req.WithContext(l.WithContext(req.Context()))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

// ── withLogging ──

func TestWithLogging_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		status     int
		body       string
		wantFields map[string]any
	}{
		{
			name:       "manifest read",
			method:     http.MethodGet,
			path:       "/v1/manifest",
			status:     http.StatusOK,
			body:       `{"session":"s"}`,
			wantFields: map[string]any{"method": "GET", "path": "/v1/manifest", "status": float64(200), "size": float64(15)},
		},
		{
			name:       "resource write",
			method:     http.MethodPost,
			path:       "/v1/resource/settings",
			status:     http.StatusOK,
			wantFields: map[string]any{"method": "POST", "path": "/v1/resource/settings", "status": float64(200), "size": float64(0)},
		},
		{
			name:       "stale write",
			method:     http.MethodPost,
			path:       "/v1/resource/keybindings",
			status:     http.StatusPreconditionFailed,
			body:       "precondition failed",
			wantFields: map[string]any{"status": float64(412)},
		},
		{
			name:       "not modified",
			method:     http.MethodGet,
			path:       "/v1/resource/settings/latest",
			status:     http.StatusNotModified,
			wantFields: map[string]any{"status": float64(304)},
		},
	}

	h := &Handler{logger: logger.Nop()}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})

			rr := httptest.NewRecorder()
			h.withLogging(next).ServeHTTP(rr, makeRequest(tt.method, tt.path, &buf))

			assert.Equal(t, tt.status, rr.Code)
			entry := decodeLogLine(t, &buf)
			for k, v := range tt.wantFields {
				assert.Equal(t, v, entry[k], k)
			}
			assert.Contains(t, entry, "duration")
		})
	}
}

func TestWithLogging_ResponseSize(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 512)))
		w.Write([]byte(strings.Repeat("b", 512)))
	})

	h := &Handler{logger: logger.Nop()}
	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), makeRequest(http.MethodGet, "/test", &buf))

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, float64(1024), entry["size"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestWithLogging_ConditionalHeaders(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})

	req := makeRequest(http.MethodPost, "/v1/resource/settings?x=1", &buf)
	req.Header.Set("If-Match", "3")
	req.Header.Set(clientVersionHeader, "1.4.0")

	h := &Handler{logger: logger.Nop()}
	h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLogLine(t, &buf)
	assert.Equal(t, "/v1/resource/settings", entry["path"])
	assert.Equal(t, "3", entry["if_match"])
	assert.Equal(t, "1.4.0", entry["client_version"])
	assert.NotContains(t, entry, "if_none_match")
}

func TestWithLogging_PanicNotSuppressed(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	h := &Handler{logger: logger.Nop()}
	assert.Panics(t, func() {
		h.withLogging(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	})
}

func TestWithLogging_ConcurrentRequests(t *testing.T) {
	h := &Handler{logger: logger.Nop()}
	handler := h.withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var buf bytes.Buffer
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, makeRequest(http.MethodGet, "/concurrent", &buf))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, buf.String(), `"status":200`)
		}()
	}
	wg.Wait()
}

// ── responseWriter ──

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = w.Write([]byte(" world"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 11, w.size)
	assert.Equal(t, "hello world", rr.Body.String())
}

func TestResponseWriter_InitialState(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	assert.Zero(t, w.status)
	assert.Zero(t, w.size)
	assert.False(t, w.wroteHeader)
}

func TestResponseWriter_ProxiesHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.Header().Set("ETag", "42")
	w.WriteHeader(http.StatusNoContent)

	assert.Equal(t, "42", rr.Header().Get("ETag"))
}
