// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package synctest runs the remote store in process for tests and builds
// sync clients wired to it.
//
// The [Server] records every request it receives, so tests can assert the
// exact request sequence a sync pass produces.
package synctest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	httphandler "github.com/MKhiriev/go-settings-sync/internal/handler/http"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/require"
)

const (
	signKey = "synctest-sign-key"
	issuer  = "synctest"
)

// Request is one request received by the [Server]. Path has the /v1 prefix
// stripped.
type Request struct {
	Method      string
	Path        string
	IfMatch     string
	IfNoneMatch string
	ExecutionID string
	Status      int
}

// IsWrite reports whether r changed remote state.
func (r Request) IsWrite() bool {
	return r.Method == http.MethodPost || r.Method == http.MethodDelete
}

func (r Request) String() string {
	s := r.Method + " " + r.Path
	if r.IfMatch != "" {
		s += " If-Match:" + r.IfMatch
	}
	return s
}

type Server struct {
	URL      string
	Services *service.Services

	srv *httptest.Server

	mu       sync.Mutex
	requests []Request
	failures map[string]int
	gate     chan struct{}
	arrived  chan struct{}
}

// NewServer starts a remote store over an in-memory repository. It is closed
// when the test ends.
func NewServer(t testing.TB, opts ...httphandler.Option) *Server {
	t.Helper()

	cfg := &config.ServerConfig{App: config.ServerApp{
		TokenSignKey:  signKey,
		TokenIssuer:   issuer,
		TokenDuration: time.Hour,
	}}
	storages := &store.Storages{RemoteRepository: store.NewMemoryRemoteRepository()}

	services, err := service.NewServices(storages, cfg, models.NewAppBuildInfo("synctest", "", ""), logger.Nop())
	require.NoError(t, err)

	s := &Server{Services: services}
	router := httphandler.NewHandler(services, logger.Nop(), opts...).Init()
	s.srv = httptest.NewServer(s.record(router))
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)

	return s
}

// Token mints a bearer token for userID.
func (s *Server) Token(t testing.TB, userID string) string {
	t.Helper()

	token, err := s.Services.AuthService.CreateToken(context.Background(), userID)
	require.NoError(t, err)
	return token.SignedString
}

// Requests returns the requests received since the last [Server.ResetRequests].
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Writes returns the recorded requests that changed remote state.
func (s *Server) Writes() []Request {
	var writes []Request
	for _, r := range s.Requests() {
		if r.IsWrite() {
			writes = append(writes, r)
		}
	}
	return writes
}

// Hold makes incoming requests wait until release is called. arrived
// receives once the first held request is in.
func (s *Server) Hold() (arrived <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gate := make(chan struct{})
	s.gate = gate
	s.arrived = make(chan struct{}, 1)

	var once sync.Once
	return s.arrived, func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) wait(ctx context.Context) {
	s.mu.Lock()
	gate, arrived := s.gate, s.arrived
	s.mu.Unlock()
	if gate == nil {
		return
	}

	select {
	case arrived <- struct{}{}:
	default:
	}
	select {
	case <-gate:
	case <-ctx.Done():
	}
}

// Fail answers every request to path (without /v1) with status. A zero
// status restores normal handling.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures == nil {
		s.failures = make(map[string]int)
	}
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = status
}

// Close stops the server. Later requests fail at the transport.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

// LatestContent returns the client content stored for resource, unwrapped
// from its sync envelope. ok is false when nothing is stored.
func (s *Server) LatestContent(t testing.TB, userID, collection string, resource models.SyncResource) (content string, ok bool) {
	t.Helper()

	stored, err := s.Services.RemoteStoreService.LatestResource(context.Background(), userID, collection, resource)
	if err != nil {
		require.ErrorIs(t, err, service.ErrNoContent)
		return "", false
	}

	var data models.SyncData
	require.NoError(t, json.Unmarshal(stored.Content, &data))
	return data.Content, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.wait(r.Context())

		path := strings.TrimPrefix(r.URL.Path, "/v1")
		s.mu.Lock()
		failWith := s.failures[path]
		s.mu.Unlock()

		rec := &statusRecorder{ResponseWriter: w}
		if failWith != 0 {
			http.Error(rec, http.StatusText(failWith), failWith)
		} else {
			next.ServeHTTP(rec, r)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        path,
			IfMatch:     r.Header.Get("If-Match"),
			IfNoneMatch: r.Header.Get("If-None-Match"),
			ExecutionID: r.Header.Get("X-Execution-Id"),
			Status:      rec.status,
		})
		s.mu.Unlock()
	})
}
