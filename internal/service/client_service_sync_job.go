// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
)

// DefaultAutoSyncInterval is used when Run gets a non-positive interval.
const DefaultAutoSyncInterval = 5 * time.Minute

type autoSyncJob struct {
	syncService UserDataSyncService
	client      adapter.StoreClient
	enablement  EnablementService
	local       store.LocalStore
	logger      *logger.Logger

	now func() time.Time

	// mu serializes passes and guards manifest and synced.
	mu       sync.Mutex
	manifest *models.Manifest
	synced   bool

	localChanged atomic.Bool
}

// NewAutoSyncJob returns an [AutoSyncJob] that revalidates the last seen
// manifest on every tick and syncs when it changed or local data changed.
func NewAutoSyncJob(
	syncService UserDataSyncService,
	client adapter.StoreClient,
	enablement EnablementService,
	local store.LocalStore,
	logger *logger.Logger,
) AutoSyncJob {
	return &autoSyncJob{
		syncService: syncService,
		client:      client,
		enablement:  enablement,
		local:       local,
		logger:      logger,
		now:         time.Now,
	}
}

// Run polls until ctx is done. Failed passes are logged and retried on the
// next tick.
func (j *autoSyncJob) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultAutoSyncInterval
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	j.logger.Info().Dur("interval", interval).Msg("auto sync started")
	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("auto sync stopped")
			return nil
		case <-t.C:
			if err := j.sync(ctx, false); err != nil && ctx.Err() == nil {
				j.logger.Error().Err(err).Msg("auto sync failed")
			}
		}
	}
}

func (j *autoSyncJob) SyncNow(ctx context.Context) error {
	return j.sync(ctx, true)
}

func (j *autoSyncJob) NotifyLocalChange(path string) {
	if !j.localChanged.Swap(true) {
		j.logger.Trace().Str("path", path).Msg("local data changed")
	}
}

func (j *autoSyncJob) WatchLocal(ctx context.Context) error {
	return j.local.Watch(ctx, j.NotifyLocalChange)
}

func (j *autoSyncJob) sync(ctx context.Context, force bool) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.enablement.IsEnabled(ctx) {
		j.logger.Trace().Msg("sync is disabled, skipping")
		return nil
	}
	if until := j.client.DonotMakeRequestsUntil(); until.After(j.now()) {
		j.logger.Debug().Time("until", until).Msg("rate limited by the store, skipping")
		return nil
	}

	last := j.manifest
	manifest, err := j.client.Manifest(ctx, last)
	if err != nil {
		return err
	}

	localChanged := j.localChanged.Swap(false)
	if !force && j.synced && manifest == last && !localChanged {
		j.logger.Trace().Msg("no remote or local changes, skipping")
		return nil
	}

	task, err := j.syncService.CreateSyncTask(ctx, manifest)
	if errors.Is(err, ErrSyncInProgress) {
		j.logger.Debug().Msg("another sync is running, skipping")
		if localChanged {
			j.localChanged.Store(true)
		}
		return nil
	}
	if err != nil {
		return err
	}

	j.manifest = manifest
	if err = task.Run(ctx); err != nil {
		j.synced = false
		return err
	}
	j.synced = true
	return nil
}
