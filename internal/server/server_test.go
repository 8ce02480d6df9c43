// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/handler"
	httphandler "github.com/MKhiriev/go-settings-sync/internal/handler/http"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── NewServer ──

func TestNewServer_NoHandlers(t *testing.T) {
	s, err := NewServer(&handler.Handlers{}, config.Server{HTTPAddress: ":0"}, logger.Nop())

	require.ErrorIs(t, err, ErrNoHandler)
	assert.Nil(t, s)

	_, err = NewServer(nil, config.Server{HTTPAddress: ":0"}, logger.Nop())
	require.ErrorIs(t, err, ErrNoHandler)
}

func TestNewServer_NoAddress(t *testing.T) {
	handlers := &handler.Handlers{HTTP: httphandler.NewHandler(nil, logger.Nop())}

	_, err := NewServer(handlers, config.Server{}, logger.Nop())

	require.ErrorIs(t, err, ErrNoAddress)
}

// ── RunServer ──

func TestRunServer_StopsOnContextCancel(t *testing.T) {
	handlers := &handler.Handlers{HTTP: httphandler.NewHandler(nil, logger.Nop())}
	s, err := NewServer(handlers, config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.RunServer(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunServer_ListenError(t *testing.T) {
	handlers := &handler.Handlers{HTTP: httphandler.NewHandler(nil, logger.Nop())}
	s, err := NewServer(handlers, config.Server{HTTPAddress: "256.0.0.1:bad"}, logger.Nop())
	require.NoError(t, err)

	err = s.RunServer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on 256.0.0.1:bad")
}

// ── httpServer ──

func TestHTTPServer_ServesUntilShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	h := newHTTPServer(mux, config.Server{HTTPAddress: "127.0.0.1:0", RequestTimeout: time.Second}, logger.Nop())
	assert.Equal(t, time.Second, h.server.ReadTimeout)

	ln, err := h.listen()
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() {
		served <- h.serve(ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, h.shutdown(context.Background()))
	assert.NoError(t, <-served)
}
