// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/client"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/synctest"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, c *synctest.Client, interval time.Duration) (cancel func() error) {
	t.Helper()

	a := client.NewApp(c.Services, c.Store, config.ClientWorkers{SyncInterval: interval}, logger.Nop())

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("app did not stop")
			return nil
		}
	}
}

func TestApp_InitialSyncUploadsLocalData(t *testing.T) {
	srv := synctest.NewServer(t)
	c := synctest.NewClient(t, srv)
	c.WriteLocal(t, "settings.json", `{"fontSize":14}`)

	stop := runApp(t, c, time.Hour)

	assert.Eventually(t, func() bool {
		content, ok := srv.LatestContent(t, "user-1", "", models.SyncResourceSettings)
		return ok && content == `{"fontSize":14}`
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, stop())
}

func TestApp_LocalChangeIsSynced(t *testing.T) {
	srv := synctest.NewServer(t)
	c := synctest.NewClient(t, srv)
	c.WriteLocal(t, "settings.json", `{"fontSize":14}`)

	stop := runApp(t, c, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := srv.LatestContent(t, "user-1", "", models.SyncResourceSettings)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		// rewritten each round so the change is seen once the watcher is up
		c.WriteLocal(t, "settings.json", `{"fontSize":18}`)
		content, _ := srv.LatestContent(t, "user-1", "", models.SyncResourceSettings)
		return content == `{"fontSize":18}`
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, stop())
}

func TestApp_RemoteChangeIsPulled(t *testing.T) {
	srv := synctest.NewServer(t)
	other := synctest.NewClient(t, srv)
	c := synctest.NewClient(t, srv)

	stop := runApp(t, c, 20*time.Millisecond)

	other.WriteLocal(t, "tasks.json", `{"version":"2.0.0"}`)
	other.Sync(t)

	assert.Eventually(t, func() bool {
		content, err := c.Storages.Local.Read(context.Background(), "tasks.json")
		return err == nil && string(content) == `{"version":"2.0.0"}`
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, stop())
}

func TestApp_StopsWhenServerIsUnreachable(t *testing.T) {
	srv := synctest.NewServer(t)
	c := synctest.NewClient(t, srv)
	srv.Close()

	stop := runApp(t, c, time.Hour)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, stop())
}
