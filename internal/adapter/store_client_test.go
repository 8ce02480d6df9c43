// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func newTestClient(t *testing.T, serverURL string, limit int) (*storeClient, store.KeyValueStore, *StaticCredentials) {
	t.Helper()

	kv := store.NewMemoryKeyValueStore()
	creds := NewStaticCredentials(config.ClientApp{AuthToken: "token-1", AccountType: "github"})

	c, err := NewStoreClient(context.Background(),
		config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second},
		config.ClientApp{ClientName: "test-client"},
		config.ClientSync{RequestLimit: limit, RequestInterval: time.Minute},
		kv, creds, logger.Nop(),
		WithClientVersion("1.2.3"),
		WithIDGenerator(fixedID("machine-1")),
	)
	require.NoError(t, err)
	t.Cleanup(c.Dispose)

	return c.(*storeClient), kv, creds
}

func TestNewStoreClient_InvalidAddress(t *testing.T) {
	_, err := NewStoreClient(context.Background(), config.ClientAdapter{}, config.ClientApp{},
		config.ClientSync{RequestLimit: 1, RequestInterval: time.Second},
		store.NewMemoryKeyValueStore(), nil, logger.Nop())
	require.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	got, err := normalizeBaseURL("localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", got)

	got, err = normalizeBaseURL(" https://sync.example.com ")
	require.NoError(t, err)
	assert.Equal(t, "https://sync.example.com", got)
}

// ── Request pipeline ────────────────────────────────────────────────────────

func TestManifest_SendsCommonHeadersAndStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/manifest", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "github", r.Header.Get(HeaderAccountType))
		assert.Equal(t, "machine-1", r.Header.Get(HeaderMachineSessionID))
		assert.Equal(t, "exec-1", r.Header.Get(HeaderExecutionID))
		assert.Equal(t, "test-client", r.Header.Get(HeaderClientName))
		assert.Equal(t, "1.2.3", r.Header.Get(HeaderClientVersion))
		assert.Empty(t, r.Header.Get(HeaderUserSessionID))

		w.Header().Set("ETag", "7")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"session":"s-1","latest":{"settings":"3"},"collections":{"c1":{"latest":{"tasks":"5"}}}}`))
	}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	ctx := utils.WithExecutionID(context.Background(), "exec-1")

	m, err := c.Manifest(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "7", m.Ref)
	assert.Equal(t, "s-1", m.Session)
	assert.Equal(t, "3", m.LatestRef("", models.SyncResourceSettings))
	assert.Equal(t, "5", m.LatestRef("c1", models.SyncResourceTasks))

	session, err := kv.Get(ctx, UserSessionIDKey)
	require.NoError(t, err)
	assert.Equal(t, "s-1", session)
}

func TestManifest_NotModifiedReturnsOldValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.Header.Get("If-None-Match"))
		assert.Equal(t, "s-1", r.Header.Get(HeaderUserSessionID))
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	require.NoError(t, kv.Set(context.Background(), UserSessionIDKey, "s-1"))

	old := &models.Manifest{Session: "s-1", Ref: "7", Latest: map[models.SyncResource]string{models.SyncResourceSettings: "3"}}
	m, err := c.Manifest(context.Background(), old)

	require.NoError(t, err)
	assert.Same(t, old, m)
}

func TestManifest_SessionChangeClearsCachedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", "1")
		_, _ = w.Write([]byte(`{"session":"s-2"}`))
	}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, UserSessionIDKey, "s-1"))
	require.NoError(t, kv.Set(ctx, MachineSessionIDKey, "old-machine"))

	var changes []SessionChange
	c.OnSessionChanged(func(sc SessionChange) { changes = append(changes, sc) })

	_, err := c.Manifest(ctx, nil)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, SessionChange{Previous: "s-1", Current: "s-2"}, changes[0])

	session, err := kv.Get(ctx, UserSessionIDKey)
	require.NoError(t, err)
	assert.Equal(t, "s-2", session)

	_, err = kv.Get(ctx, MachineSessionIDKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestManifest_NoContentClearsCachedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", "0")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, UserSessionIDKey, "s-1"))

	var changes []SessionChange
	c.OnSessionChanged(func(sc SessionChange) { changes = append(changes, sc) })

	m, err := c.Manifest(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, []SessionChange{{Previous: "s-1"}}, changes)

	_, err = kv.Get(ctx, UserSessionIDKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestManifest_MissingETag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"session":"s-1"}`))
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)
	_, err := c.Manifest(context.Background(), nil)

	assert.Equal(t, app.CodeNoRef, app.CodeOf(err))
}

func TestReadResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		switch r.URL.Path {
		case "/v1/resource/settings/latest":
			if r.Header.Get("If-None-Match") == "4" {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", "4")
			_, _ = w.Write([]byte(`{"version":1,"content":"{}"}`))
		case "/v1/collection/c1/resource/tasks/latest":
			w.Header().Set("ETag", "0")
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()

	data, err := c.ReadResource(ctx, models.SyncResourceSettings, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "4", data.Ref)
	assert.JSONEq(t, `{"version":1,"content":"{}"}`, string(data.Content))

	old := &models.UserData{Ref: "4", Content: []byte("cached")}
	data, err = c.ReadResource(ctx, models.SyncResourceSettings, old, "")
	require.NoError(t, err)
	assert.Equal(t, *old, data)

	data, err = c.ReadResource(ctx, models.SyncResourceTasks, nil, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.InitialRef, data.Ref)
	assert.Nil(t, data.Content)

	_, err = c.ReadResource(ctx, models.SyncResourceKeybindings, nil, "")
	assert.Equal(t, app.CodeNotFound, app.CodeOf(err))
}

func TestWriteResource_SendsIfMatchAndNeverRetriesConflicts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/resource/settings", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(body))

		if r.Header.Get("If-Match") != "3" {
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		w.Header().Set("ETag", "4")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()

	ref, err := c.WriteResource(ctx, models.SyncResourceSettings, []byte("payload"), "3", "")
	require.NoError(t, err)
	assert.Equal(t, "4", ref)

	_, err = c.WriteResource(ctx, models.SyncResourceSettings, []byte("payload"), "2", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrPreconditionFailed)
	assert.EqualValues(t, 2, hits.Load())
}

func TestRequest_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		header map[string]string
		want   app.ErrorCode
	}{
		{http.StatusNotFound, nil, app.CodeNotFound},
		{http.StatusMethodNotAllowed, nil, app.CodeMethodNotFound},
		{http.StatusConflict, nil, app.CodeConflict},
		{http.StatusGone, nil, app.CodeGone},
		{http.StatusPreconditionFailed, nil, app.CodePreconditionFailed},
		{http.StatusRequestEntityTooLarge, nil, app.CodeTooLarge},
		{http.StatusUpgradeRequired, nil, app.CodeUpgradeRequired},
		{http.StatusTooManyRequests, nil, app.CodeTooManyRequests},
		{http.StatusInternalServerError, nil, app.CodeUnknown},
		{http.StatusBadRequest, nil, app.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(HeaderOperationID, "op-1")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c, _, _ := newTestClient(t, srv.URL, 10)
			err := c.DeleteResource(context.Background(), models.SyncResourceSettings, "", "")

			syncErr := app.ToSyncError(err)
			require.NotNil(t, syncErr)
			assert.Equal(t, tt.want, syncErr.Code)
			assert.Equal(t, tt.status, syncErr.StatusCode)
			assert.Equal(t, "op-1", syncErr.OperationID)
			assert.Equal(t, srv.URL+"/v1/resource/settings", syncErr.URL)
		})
	}
}

func TestRequest_UnauthorizedClearsTokenAndFiresTokenFailed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, _, creds := newTestClient(t, srv.URL, 10)

	var failed []app.ErrorCode
	c.OnTokenFailed(func(code app.ErrorCode) {
		failed = append(failed, code)
		creds.SetToken("", "")
	})

	_, err := c.Manifest(context.Background(), nil)
	assert.ErrorIs(t, err, app.ErrUnauthorized)
	assert.Equal(t, []app.ErrorCode{app.CodeUnauthorized}, failed)

	_, err = c.Manifest(context.Background(), nil)
	assert.ErrorIs(t, err, app.ErrUnauthorized)
	assert.EqualValues(t, 1, hits.Load())
}

func TestRequest_ForbiddenFiresTokenFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)

	var failed []app.ErrorCode
	c.OnTokenFailed(func(code app.ErrorCode) { failed = append(failed, code) })

	_, err := c.ListCollections(context.Background())
	assert.Equal(t, app.CodeForbidden, app.CodeOf(err))
	assert.Equal(t, []app.ErrorCode{app.CodeForbidden}, failed)
	assert.Nil(t, c.authToken)
}

func TestRequest_NoTokenFailsWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c, _, creds := newTestClient(t, srv.URL, 10)
	creds.SetToken("", "")

	_, err := c.Manifest(context.Background(), nil)
	assert.Equal(t, app.CodeUnauthorized, app.CodeOf(err))
	assert.Zero(t, hits.Load())
}

func TestRequest_RetryAfterArmsPersistedDeadline(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()

	var deadlines []time.Time
	c.OnDidChangeDonotMakeRequestsUntil(func(d time.Time) { deadlines = append(deadlines, d) })

	_, err := c.Manifest(ctx, nil)
	assert.Equal(t, app.CodeTooManyRequestsAndRetryAfter, app.CodeOf(err))

	until := c.DonotMakeRequestsUntil()
	assert.WithinDuration(t, time.Now().Add(time.Minute), until, 5*time.Second)
	require.Len(t, deadlines, 1)

	persisted, err := kv.Get(ctx, DonotMakeRequestsUntilKey)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(until.UnixMilli(), 10), persisted)

	_, err = c.Manifest(ctx, nil)
	assert.Equal(t, app.CodeTooManyRequestsAndRetryAfter, app.CodeOf(err))
	assert.EqualValues(t, 1, hits.Load())
}

func TestRequest_DeadlineRestoredFromStore(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	kv := store.NewMemoryKeyValueStore()
	until := time.Now().Add(time.Hour)
	require.NoError(t, kv.Set(context.Background(), DonotMakeRequestsUntilKey, strconv.FormatInt(until.UnixMilli(), 10)))

	c, err := NewStoreClient(context.Background(),
		config.ClientAdapter{HTTPAddress: srv.URL},
		config.ClientApp{},
		config.ClientSync{RequestLimit: 10, RequestInterval: time.Minute},
		kv, NewStaticCredentials(config.ClientApp{AuthToken: "t"}), logger.Nop())
	require.NoError(t, err)
	defer c.Dispose()

	assert.Equal(t, until.UnixMilli(), c.DonotMakeRequestsUntil().UnixMilli())

	_, err = c.Manifest(context.Background(), nil)
	assert.Equal(t, app.CodeTooManyRequestsAndRetryAfter, app.CodeOf(err))
	assert.Zero(t, hits.Load())
}

func TestRequest_DeadlineExpires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	c.setDonotMakeRequestsUntil(time.Now().Add(50 * time.Millisecond))

	assert.Eventually(t, func() bool {
		return c.DonotMakeRequestsUntil().IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	_, err := kv.Get(context.Background(), DonotMakeRequestsUntilKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestRequest_LocalThrottle(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("ETag", "0")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Manifest(ctx, nil)
		require.NoError(t, err)
	}

	_, err := c.Manifest(ctx, nil)
	assert.Equal(t, app.CodeLocalTooManyRequests, app.CodeOf(err))
	assert.EqualValues(t, 2, hits.Load())
}

func TestRequest_TransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := srv.URL
		srv.Close()

		c, _, _ := newTestClient(t, addr, 10)
		_, err := c.Manifest(context.Background(), nil)
		assert.Equal(t, app.CodeRequestFailed, app.CodeOf(err))
	})

	t.Run("unsupported protocol", func(t *testing.T) {
		c, _, _ := newTestClient(t, "ftp://localhost:21", 10)
		_, err := c.Manifest(context.Background(), nil)
		assert.Equal(t, app.CodeRequestProtocolNotSupported, app.CodeOf(err))
	})

	t.Run("canceled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		c, _, _ := newTestClient(t, srv.URL, 10)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Manifest(ctx, nil)
		assert.Equal(t, app.CodeRequestCanceled, app.CodeOf(err))
	})
}

// ── Collections and history ─────────────────────────────────────────────────

func TestCollections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/collection":
			_, _ = w.Write([]byte("col-1"))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/collection":
			_, _ = w.Write([]byte(`[{"id":"col-1"},{"id":"col-2"}]`))
		case r.Method == http.MethodDelete && r.URL.Path == "/v1/collection/col-1":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()

	id, err := c.CreateCollection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "col-1", id)

	ids, err := c.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"col-1", "col-2"}, ids)

	require.NoError(t, c.DeleteCollection(ctx, "col-1"))
}

func TestCreateCollection_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)
	_, err := c.CreateCollection(context.Background())

	assert.Equal(t, app.CodeNoCollection, app.CodeOf(err))
}

func TestResourceHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/resource/settings":
			_, _ = w.Write([]byte(`[{"url":"/v1/resource/settings/9","created":1700000000},{"url":"/v1/resource/settings/4","created":1690000000}]`))
		case "/v1/resource/settings/9":
			_, _ = w.Write([]byte("v9"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, _, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()

	refs, err := c.ListResourceRefs(ctx, models.SyncResourceSettings, "")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "9", refs[0].Ref)
	assert.Equal(t, time.Unix(1700000000, 0), refs[0].Created)

	content, err := c.ResolveResourceContent(ctx, models.SyncResourceSettings, "9", "")
	require.NoError(t, err)
	assert.Equal(t, "v9", string(content))
}

func TestClear(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, kv, _ := newTestClient(t, srv.URL, 10)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, UserSessionIDKey, "s-1"))

	require.NoError(t, c.Clear(ctx))

	assert.Equal(t, []string{"DELETE /v1/collection", "DELETE /v1/resource"}, calls)
	_, err := kv.Get(ctx, UserSessionIDKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
	_, err = kv.Get(ctx, MachineSessionIDKey)
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}
