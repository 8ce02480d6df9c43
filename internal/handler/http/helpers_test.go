// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/require"
)

const (
	testSignKey         = "test-sign-key"
	testIssuer          = "settings-sync-test"
	testMaxResourceSize = 1024
	testVersion         = "1.2.3"
)

func newTestServices(t *testing.T) *service.Services {
	t.Helper()

	cfg := &config.ServerConfig{App: config.ServerApp{
		TokenSignKey:    testSignKey,
		TokenIssuer:     testIssuer,
		TokenDuration:   time.Hour,
		MaxResourceSize: testMaxResourceSize,
	}}
	storages := &store.Storages{RemoteRepository: store.NewMemoryRemoteRepository()}

	services, err := service.NewServices(storages, cfg, models.NewAppBuildInfo(testVersion, "", ""), logger.Nop())
	require.NoError(t, err)
	return services
}

// testServer drives the router with httptest recorders on behalf of one
// authenticated user.
type testServer struct {
	router   http.Handler
	services *service.Services
	token    string
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()

	services := newTestServices(t)
	token, err := services.AuthService.CreateToken(context.Background(), "user-1")
	require.NoError(t, err)

	return &testServer{
		router:   NewHandler(services, logger.Nop(), opts...).Init(),
		services: services,
		token:    token.SignedString,
	}
}

type header map[string]string

func (s *testServer) do(method, path string, body []byte, h header) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer "+s.token)
	for k, v := range h {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// write stores content under path and returns the new ref.
func (s *testServer) write(t *testing.T, path, content, ifMatch string) string {
	t.Helper()

	rr := s.do(http.MethodPost, path, []byte(content), header{"If-Match": ifMatch})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ref := rr.Header().Get("ETag")
	require.NotEmpty(t, ref)
	return ref
}
