// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/go-resty/resty/v2"
)

// Keys of the client state kept in the [store.KeyValueStore].
const (
	UserSessionIDKey          = "sync.user-session-id"
	MachineSessionIDKey       = "sync.machine-session-id"
	DonotMakeRequestsUntilKey = "sync.donot-make-requests-until"
)

// Request headers of the store protocol.
const (
	HeaderExecutionID      = "X-Execution-Id"
	HeaderMachineSessionID = "X-Machine-Session-Id"
	HeaderUserSessionID    = "X-User-Session-Id"
	HeaderAccountType      = "X-Account-Type"
	HeaderClientName       = "X-Client-Name"
	HeaderClientVersion    = "X-Client-Version"
)

const (
	mimeJSON = "application/json"
	mimeText = "text/plain"
)

type storeClient struct {
	client  *utils.HTTPClient
	baseURL string

	credentials CredentialProvider
	kv          store.KeyValueStore
	ids         utils.IDGenerator

	clientName    string
	clientVersion string
	transport     http.RoundTripper

	mu                     sync.Mutex
	authToken              *models.AuthToken
	donotMakeRequestsUntil time.Time
	resetTimer             *time.Timer

	onTokenFailed                     *utils.Emitter[app.ErrorCode]
	onTokenSucceed                    *utils.Emitter[struct{}]
	onDidChangeDonotMakeRequestsUntil *utils.Emitter[time.Time]
	onSessionChanged                  *utils.Emitter[SessionChange]

	logger *logger.Logger
}

// Option customizes the store client.
type Option func(*storeClient)

// WithClientVersion sets the X-Client-Version header value.
func WithClientVersion(version string) Option {
	return func(c *storeClient) {
		c.clientVersion = version
	}
}

// WithBaseTransport sets the round tripper wrapped by the request throttler.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *storeClient) {
		c.transport = rt
	}
}

// WithIDGenerator replaces the generator of machine session ids.
func WithIDGenerator(ids utils.IDGenerator) Option {
	return func(c *storeClient) {
		c.ids = ids
	}
}

// NewStoreClient constructs the HTTP implementation of [StoreClient] for the
// store at adapterCfg.HTTPAddress. All requests go through a
// [RequestThrottler] configured from syncCfg. A Retry-After deadline persisted
// by a previous process is restored from kv.
//
// Returns an error if the address cannot be parsed as a URL.
func NewStoreClient(
	ctx context.Context,
	adapterCfg config.ClientAdapter,
	appCfg config.ClientApp,
	syncCfg config.ClientSync,
	kv store.KeyValueStore,
	credentials CredentialProvider,
	log *logger.Logger,
	opts ...Option,
) (StoreClient, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	c := &storeClient{
		baseURL:                           baseURL + "/v1",
		credentials:                       credentials,
		kv:                                kv,
		ids:                               utils.NewUUIDGenerator(),
		clientName:                        appCfg.ClientName,
		clientVersion:                     "N/A",
		onTokenFailed:                     utils.NewEmitter[app.ErrorCode](),
		onTokenSucceed:                    utils.NewEmitter[struct{}](),
		onDidChangeDonotMakeRequestsUntil: utils.NewEmitter[time.Time](),
		onSessionChanged:                  utils.NewEmitter[SessionChange](),
		logger:                            log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clientName == "" {
		c.clientName = config.DefaultClientName
	}

	c.client = utils.NewHTTPClient(
		utils.WithBaseURL(c.baseURL),
		utils.WithTimeout(adapterCfg.RequestTimeout),
		utils.WithTransport(NewRequestThrottler(c.transport, syncCfg.RequestLimit, syncCfg.RequestInterval)),
		utils.WithHeaders(map[string]string{
			HeaderClientName:    c.clientName,
			HeaderClientVersion: c.clientVersion,
		}),
	)
	c.client.SetLogger(restyLogger{log}).SetDisableWarn(true)

	c.initDonotMakeRequestsUntil(ctx)

	return c, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// restyLogger routes resty's internal messages to zerolog.
type restyLogger struct {
	l *logger.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Debug().Msgf("resty: "+format, v...) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Debug().Msgf("resty: "+format, v...) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Trace().Msgf("resty: "+format, v...) }

func (c *storeClient) OnTokenFailed(fn func(app.ErrorCode)) utils.Disposable {
	return c.onTokenFailed.Subscribe(fn)
}

func (c *storeClient) OnTokenSucceed(fn func(struct{})) utils.Disposable {
	return c.onTokenSucceed.Subscribe(fn)
}

func (c *storeClient) OnDidChangeDonotMakeRequestsUntil(fn func(time.Time)) utils.Disposable {
	return c.onDidChangeDonotMakeRequestsUntil.Subscribe(fn)
}

func (c *storeClient) OnSessionChanged(fn func(SessionChange)) utils.Disposable {
	return c.onSessionChanged.Subscribe(fn)
}

func (c *storeClient) Dispose() {
	c.mu.Lock()
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.mu.Unlock()

	c.onTokenFailed.Dispose()
	c.onTokenSucceed.Dispose()
	c.onDidChangeDonotMakeRequestsUntil.Dispose()
	c.onSessionChanged.Dispose()
}

// region Collections

func (c *storeClient) ListCollections(ctx context.Context) ([]string, error) {
	resp, err := c.request(ctx, storeRequest{
		method:  http.MethodGet,
		path:    "/collection",
		headers: map[string]string{"Content-Type": mimeJSON},
	})
	if err != nil {
		return nil, err
	}

	var collections []struct {
		ID string `json:"id"`
	}
	if body := resp.Body(); len(body) > 0 {
		if err = json.Unmarshal(body, &collections); err != nil {
			return nil, fmt.Errorf("decode collections: %w", err)
		}
	}

	ids := make([]string, 0, len(collections))
	for _, col := range collections {
		ids = append(ids, col.ID)
	}
	return ids, nil
}

func (c *storeClient) CreateCollection(ctx context.Context) (string, error) {
	resp, err := c.request(ctx, storeRequest{
		method:  http.MethodPost,
		path:    "/collection",
		headers: map[string]string{"Content-Type": mimeText},
	})
	if err != nil {
		return "", err
	}

	id := strings.TrimSpace(string(resp.Body()))
	if id == "" {
		return "", app.NewStoreError(app.CodeNoCollection, "server did not return the collection id",
			c.baseURL+"/collection", resp.StatusCode(), resp.Header().Get(HeaderOperationID))
	}
	return id, nil
}

func (c *storeClient) DeleteCollection(ctx context.Context, collection string) error {
	p := "/collection"
	if collection != "" {
		p = "/collection/" + url.PathEscape(collection)
	}

	_, err := c.request(ctx, storeRequest{method: http.MethodDelete, path: p})
	return err
}

// endregion

// region Resources

func (c *storeClient) ListResourceRefs(ctx context.Context, resource models.SyncResource, collection string) ([]models.ResourceRef, error) {
	resp, err := c.request(ctx, storeRequest{
		method: http.MethodGet,
		path:   resourcePath(collection, resource),
	})
	if err != nil {
		return nil, err
	}

	var entries []struct {
		URL     string `json:"url"`
		Created int64  `json:"created"`
	}
	if body := resp.Body(); len(body) > 0 {
		if err = json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decode resource refs: %w", err)
		}
	}

	refs := make([]models.ResourceRef, 0, len(entries))
	for _, e := range entries {
		// created is in seconds
		refs = append(refs, models.ResourceRef{Ref: path.Base(e.URL), Created: time.Unix(e.Created, 0)})
	}
	return refs, nil
}

func (c *storeClient) ResolveResourceContent(ctx context.Context, resource models.SyncResource, ref, collection string) ([]byte, error) {
	resp, err := c.request(ctx, storeRequest{
		method:  http.MethodGet,
		path:    resourcePath(collection, resource) + "/" + url.PathEscape(ref),
		headers: map[string]string{"Cache-Control": "no-cache"},
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusNoContent {
		return nil, nil
	}
	return resp.Body(), nil
}

func (c *storeClient) DeleteResource(ctx context.Context, resource models.SyncResource, ref, collection string) error {
	p := resourcePath(collection, resource)
	if ref != "" {
		p += "/" + url.PathEscape(ref)
	}

	_, err := c.request(ctx, storeRequest{method: http.MethodDelete, path: p})
	return err
}

func (c *storeClient) DeleteResources(ctx context.Context) error {
	_, err := c.request(ctx, storeRequest{
		method:  http.MethodDelete,
		path:    "/resource",
		headers: map[string]string{"Content-Type": mimeText},
	})
	return err
}

func (c *storeClient) ReadResource(ctx context.Context, resource models.SyncResource, old *models.UserData, collection string) (models.UserData, error) {
	p := resourcePath(collection, resource) + "/latest"
	headers := map[string]string{"Cache-Control": "no-cache"}
	if old != nil && old.Ref != "" {
		headers["If-None-Match"] = old.Ref
	}

	resp, err := c.request(ctx, storeRequest{
		method:       http.MethodGet,
		path:         p,
		headers:      headers,
		successCodes: []int{http.StatusNotModified},
	})
	if err != nil {
		return models.UserData{}, err
	}

	if resp.StatusCode() == http.StatusNotModified && old != nil {
		return *old, nil
	}

	ref := resp.Header().Get("ETag")
	if resp.StatusCode() == http.StatusNoContent {
		if ref == "" {
			ref = models.InitialRef
		}
		return models.UserData{Ref: ref}, nil
	}
	if ref == "" {
		return models.UserData{}, app.NewStoreError(app.CodeNoRef, "server did not return the ref",
			c.baseURL+p, resp.StatusCode(), resp.Header().Get(HeaderOperationID))
	}

	content := resp.Body()
	if len(content) == 0 && resp.StatusCode() == http.StatusNotModified {
		return models.UserData{}, app.NewStoreError(app.CodeEmptyResponse, "empty response",
			c.baseURL+p, resp.StatusCode(), resp.Header().Get(HeaderOperationID))
	}
	if content == nil {
		content = []byte{}
	}

	return models.UserData{Ref: ref, Content: content}, nil
}

func (c *storeClient) WriteResource(ctx context.Context, resource models.SyncResource, content []byte, ref, collection string) (string, error) {
	p := resourcePath(collection, resource)
	headers := map[string]string{"Content-Type": mimeText}
	if ref != "" {
		headers["If-Match"] = ref
	}

	resp, err := c.request(ctx, storeRequest{
		method:  http.MethodPost,
		path:    p,
		headers: headers,
		body:    content,
	})
	if err != nil {
		return "", err
	}

	newRef := resp.Header().Get("ETag")
	if newRef == "" {
		return "", app.NewStoreError(app.CodeNoRef, "server did not return the ref",
			c.baseURL+p, resp.StatusCode(), resp.Header().Get(HeaderOperationID))
	}
	return newRef, nil
}

func resourcePath(collection string, resource models.SyncResource) string {
	if collection != "" {
		return "/collection/" + url.PathEscape(collection) + "/resource/" + url.PathEscape(resource.String())
	}
	return "/resource/" + url.PathEscape(resource.String())
}

// endregion

func (c *storeClient) Manifest(ctx context.Context, old *models.Manifest) (*models.Manifest, error) {
	headers := map[string]string{"Content-Type": mimeJSON}
	if old != nil && old.Ref != "" {
		headers["If-None-Match"] = old.Ref
	}

	resp, err := c.request(ctx, storeRequest{
		method:       http.MethodGet,
		path:         "/manifest",
		headers:      headers,
		successCodes: []int{http.StatusNotModified},
	})
	if err != nil {
		return nil, err
	}

	var manifest *models.Manifest
	if resp.StatusCode() == http.StatusNotModified {
		manifest = old
	}

	if manifest == nil {
		ref := resp.Header().Get("ETag")
		if ref == "" {
			return nil, app.NewStoreError(app.CodeNoRef, "server did not return the ref",
				c.baseURL+"/manifest", resp.StatusCode(), resp.Header().Get(HeaderOperationID))
		}

		content := resp.Body()
		if len(content) == 0 && resp.StatusCode() == http.StatusNotModified {
			return nil, app.NewStoreError(app.CodeEmptyResponse, "empty response",
				c.baseURL+"/manifest", resp.StatusCode(), resp.Header().Get(HeaderOperationID))
		}
		if len(content) > 0 {
			manifest = &models.Manifest{}
			if err = json.Unmarshal(content, manifest); err != nil {
				return nil, fmt.Errorf("decode manifest: %w", err)
			}
			manifest.Ref = ref
		}
	}

	if err = c.updateSession(ctx, manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

// updateSession forgets the cached session when the store reports another
// one or none at all, and caches the session of manifest.
func (c *storeClient) updateSession(ctx context.Context, manifest *models.Manifest) error {
	current, err := c.getKey(ctx, UserSessionIDKey)
	if err != nil {
		return err
	}

	switch {
	case current != "" && manifest != nil && current != manifest.Session:
		c.logger.Info().Str("previous", current).Str("current", manifest.Session).Msg("server session changed")
		if err = c.clearSession(ctx); err != nil {
			return err
		}
		c.onSessionChanged.Fire(SessionChange{Previous: current, Current: manifest.Session})
	case current != "" && manifest == nil:
		c.logger.Info().Str("previous", current).Msg("server session cleared")
		if err = c.clearSession(ctx); err != nil {
			return err
		}
		c.onSessionChanged.Fire(SessionChange{Previous: current})
	}

	if manifest != nil {
		if err = c.kv.Set(ctx, UserSessionIDKey, manifest.Session); err != nil {
			return app.NewSyncError(app.CodeLocalError, fmt.Sprintf("store session id: %v", err))
		}
	}
	return nil
}

func (c *storeClient) Clear(ctx context.Context) error {
	if err := c.DeleteCollection(ctx, ""); err != nil {
		return err
	}
	if err := c.DeleteResources(ctx); err != nil {
		return err
	}
	return c.clearSession(ctx)
}

func (c *storeClient) clearSession(ctx context.Context) error {
	for _, key := range []string{UserSessionIDKey, MachineSessionIDKey} {
		if err := c.kv.Delete(ctx, key); err != nil {
			return app.NewSyncError(app.CodeLocalError, fmt.Sprintf("clear session: %v", err))
		}
	}
	return nil
}

func (c *storeClient) getKey(ctx context.Context, key string) (string, error) {
	v, err := c.kv.Get(ctx, key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", app.NewSyncError(app.CodeLocalError, fmt.Sprintf("read %s: %v", key, err))
	}
	return v, nil
}

// region Requests

type storeRequest struct {
	method       string
	path         string
	headers      map[string]string
	body         []byte
	successCodes []int
}

func (c *storeClient) token(ctx context.Context) (models.AuthToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.authToken == nil && c.credentials != nil {
		if token, ok := c.credentials.Token(ctx); ok {
			c.authToken = &token
		}
	}
	if c.authToken == nil {
		return models.AuthToken{}, false
	}
	return *c.authToken, true
}

func (c *storeClient) clearToken() {
	c.mu.Lock()
	c.authToken = nil
	c.mu.Unlock()
}

// request runs the shared pipeline of every store call: credential and
// deadline checks, common headers, transport error classification, auth
// signals, Retry-After handling and status mapping.
func (c *storeClient) request(ctx context.Context, r storeRequest) (*resty.Response, error) {
	fullURL := c.baseURL + r.path

	token, ok := c.token(ctx)
	if !ok {
		return nil, app.NewStoreError(app.CodeUnauthorized, "no auth token available", fullURL, 0, "")
	}

	if until := c.DonotMakeRequestsUntil(); !until.IsZero() && time.Now().Before(until) {
		return nil, app.NewStoreError(app.CodeTooManyRequestsAndRetryAfter,
			fmt.Sprintf("%s request '%s' failed because of too many requests (429).", r.method, fullURL), fullURL, 0, "")
	}
	c.setDonotMakeRequestsUntil(time.Time{})

	req := c.client.R().
		SetContext(ctx).
		SetHeaders(r.headers).
		SetHeader(HeaderAccountType, token.AccountType).
		SetAuthToken(token.Token)

	executionID, _ := utils.GetExecutionIDFromContext(ctx)
	if executionID != "" {
		req.SetHeader(HeaderExecutionID, executionID)
	}
	if err := c.addSessionHeaders(ctx, req); err != nil {
		return nil, err
	}
	if r.body != nil {
		req.SetBody(r.body)
	}

	c.logger.Trace().
		Str("method", r.method).
		Str("url", fullURL).
		Str("execution_id", executionID).
		Msg("sending request to server")

	resp, err := req.Execute(r.method, r.path)
	if err != nil {
		syncErr := mapTransportError(err, r.method, fullURL)
		c.logger.Info().Err(err).Str("url", fullURL).Str("code", string(syncErr.Code)).Msg("request failed")
		return nil, syncErr
	}

	status := resp.StatusCode()
	operationID := resp.Header().Get(HeaderOperationID)
	syncErr := mapHTTPError(r.method, fullURL, status, resp.Header(), resp.Body(), r.successCodes...)
	if syncErr == nil {
		c.logger.Trace().Str("url", fullURL).Int("status", status).
			Str("execution_id", executionID).Str("operation_id", operationID).Msg("request succeeded")
	} else {
		c.logger.Info().Str("url", fullURL).Int("status", status).
			Str("execution_id", executionID).Str("operation_id", operationID).
			Str("body", string(resp.Body())).Msg("request failed")
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.clearToken()
		c.onTokenFailed.Fire(syncErr.Code)
		return nil, syncErr
	}
	c.onTokenSucceed.Fire(struct{}{})

	if status == http.StatusTooManyRequests {
		if seconds, perr := strconv.Atoi(strings.TrimSpace(resp.Header().Get("Retry-After"))); perr == nil {
			c.setDonotMakeRequestsUntil(time.Now().Add(time.Duration(seconds) * time.Second))
		}
	}

	if syncErr != nil {
		return nil, syncErr
	}
	return resp, nil
}

func (c *storeClient) addSessionHeaders(ctx context.Context, req *resty.Request) error {
	machineSessionID, err := c.getKey(ctx, MachineSessionIDKey)
	if err != nil {
		return err
	}
	if machineSessionID == "" {
		machineSessionID = c.ids.Generate()
		if err = c.kv.Set(ctx, MachineSessionIDKey, machineSessionID); err != nil {
			return app.NewSyncError(app.CodeLocalError, fmt.Sprintf("store machine session id: %v", err))
		}
	}
	req.SetHeader(HeaderMachineSessionID, machineSessionID)

	userSessionID, err := c.getKey(ctx, UserSessionIDKey)
	if err != nil {
		return err
	}
	if userSessionID != "" {
		req.SetHeader(HeaderUserSessionID, userSessionID)
	}
	return nil
}

// endregion

// region Retry-After deadline

func (c *storeClient) DonotMakeRequestsUntil() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.donotMakeRequestsUntil
}

func (c *storeClient) initDonotMakeRequestsUntil(ctx context.Context) {
	v, err := c.getKey(ctx, DonotMakeRequestsUntilKey)
	if err != nil || v == "" {
		return
	}

	millis, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		c.logger.Warn().Err(err).Str("value", v).Msg("ignoring malformed retry-after deadline")
		return
	}
	if until := time.UnixMilli(millis); time.Now().Before(until) {
		c.setDonotMakeRequestsUntil(until)
	}
}

// setDonotMakeRequestsUntil arms (or, for a zero until, disarms) the
// Retry-After deadline, persists it and schedules its expiry.
func (c *storeClient) setDonotMakeRequestsUntil(until time.Time) {
	c.mu.Lock()
	if c.donotMakeRequestsUntil.Equal(until) {
		c.mu.Unlock()
		return
	}
	c.donotMakeRequestsUntil = until
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	if !until.IsZero() {
		c.resetTimer = time.AfterFunc(time.Until(until), func() {
			c.expireDonotMakeRequestsUntil(until)
		})
	}
	c.mu.Unlock()

	ctx := context.Background()
	var err error
	if until.IsZero() {
		err = c.kv.Delete(ctx, DonotMakeRequestsUntilKey)
	} else {
		err = c.kv.Set(ctx, DonotMakeRequestsUntilKey, strconv.FormatInt(until.UnixMilli(), 10))
	}
	if err != nil {
		c.logger.Err(err).Msg("error persisting retry-after deadline")
	}

	c.onDidChangeDonotMakeRequestsUntil.Fire(until)
}

func (c *storeClient) expireDonotMakeRequestsUntil(until time.Time) {
	c.mu.Lock()
	current := c.donotMakeRequestsUntil
	c.mu.Unlock()

	if current.Equal(until) {
		c.setDonotMakeRequestsUntil(time.Time{})
	}
}

// endregion
