// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package synctest

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/stretchr/testify/require"
)

// Client is one machine synchronizing against a [Server]. Its client stores
// live in memory.
type Client struct {
	Store    adapter.StoreClient
	Storages *store.ClientStorages
	Services *service.ClientServices
}

type clientOptions struct {
	userID    string
	syncCfg   config.ClientSync
	adapterOp []adapter.Option
}

type ClientOption func(*clientOptions)

// WithUserID signs the client in as userID instead of "user-1".
func WithUserID(userID string) ClientOption {
	return func(o *clientOptions) {
		o.userID = userID
	}
}

// WithRequestLimit allows limit requests per interval.
func WithRequestLimit(limit int, interval time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.syncCfg.RequestLimit = limit
		o.syncCfg.RequestInterval = interval
	}
}

func WithDisabledResources(resources ...string) ClientOption {
	return func(o *clientOptions) {
		o.syncCfg.DisabledResources = resources
	}
}

func WithAdapterOptions(opts ...adapter.Option) ClientOption {
	return func(o *clientOptions) {
		o.adapterOp = append(o.adapterOp, opts...)
	}
}

// NewClient builds a client of s. It is disposed when the test ends.
func NewClient(t testing.TB, s *Server, opts ...ClientOption) *Client {
	t.Helper()

	o := clientOptions{
		userID: "user-1",
		syncCfg: config.ClientSync{
			RequestLimit:    100,
			RequestInterval: time.Minute,
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	appCfg := config.ClientApp{
		AuthToken:   s.Token(t, o.userID),
		AccountType: "synctest",
		ClientName:  "synctest",
	}
	storages := store.NewMemoryClientStorages()

	client, err := adapter.NewStoreClient(
		context.Background(),
		config.ClientAdapter{HTTPAddress: s.URL, RequestTimeout: 5 * time.Second},
		appCfg,
		o.syncCfg,
		storages.KeyValue,
		adapter.NewStaticCredentials(appCfg),
		logger.Nop(),
		o.adapterOp...,
	)
	require.NoError(t, err)

	services, err := service.NewClientServices(client, storages, o.syncCfg, logger.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		services.Sync.Dispose()
		client.Dispose()
	})

	return &Client{Store: client, Storages: storages, Services: services}
}

// Sync runs one full pass and fails the test on error.
func (c *Client) Sync(t testing.TB) {
	t.Helper()
	require.NoError(t, c.TrySync(context.Background()))
}

// TrySync runs one full pass, fetching the manifest itself.
func (c *Client) TrySync(ctx context.Context) error {
	task, err := c.Services.Sync.CreateSyncTask(ctx, nil)
	if err != nil {
		return err
	}
	return task.Run(ctx)
}

func (c *Client) WriteLocal(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, c.Storages.Local.Write(context.Background(), path, []byte(content)))
}

func (c *Client) ReadLocal(t testing.TB, path string) string {
	t.Helper()
	content, err := c.Storages.Local.Read(context.Background(), path)
	require.NoError(t, err)
	return string(content)
}
