// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/internal/workers"
	"github.com/MKhiriev/go-settings-sync/models"
)

type App struct {
	services *service.ClientServices
	store    adapter.StoreClient
	workers  *workers.Workers

	subscriptions utils.DisposableStore

	logger *logger.Logger
}

func NewApp(services *service.ClientServices, store adapter.StoreClient, cfg config.ClientWorkers, logger *logger.Logger) *App {
	a := &App{
		services: services,
		store:    store,
		workers: workers.NewWorkers(logger,
			workers.NewAutoSyncWorker(services.AutoSync, cfg.SyncInterval),
			workers.NewLocalWatchWorker(services.AutoSync),
		),
		logger: logger,
	}
	a.subscribe()
	return a
}

func (a *App) subscribe() {
	log := a.logger

	a.subscriptions.Add(a.services.Sync.OnDidChangeStatus(func(s models.SyncStatus) {
		log.Info().Str("status", s.String()).Msg("sync status changed")
	}))
	a.subscriptions.Add(a.services.Sync.OnDidChangeConflicts(func(conflicts []models.Conflict) {
		for _, c := range conflicts {
			log.Warn().
				Str("profile", c.Profile).
				Str("resource", c.SyncResource.String()).
				Int("previews", len(c.PreviewResources)).
				Msg("conflict needs a decision")
		}
	}))
	a.subscriptions.Add(a.services.Sync.OnSyncErrors(func(errs []*app.SyncResourceError) {
		for _, e := range errs {
			log.Error().
				Str("profile", e.Profile).
				Str("resource", e.Resource.String()).
				Str("code", string(e.Err.Code)).
				Msg(e.Err.Message)
		}
	}))
	a.subscriptions.Add(a.services.Sync.OnDidChangeLastSyncTime(func(t time.Time) {
		log.Debug().Time("last_sync_time", t).Msg("last sync time updated")
	}))
	a.subscriptions.Add(a.store.OnTokenFailed(func(code app.ErrorCode) {
		log.Warn().Str("code", string(code)).Msg("store rejected the auth token")
	}))
	a.subscriptions.Add(a.store.OnDidChangeDonotMakeRequestsUntil(func(until time.Time) {
		if !until.IsZero() {
			log.Warn().Time("until", until).Msg("store asked to pause requests")
		}
	}))
}

// Run syncs once and then keeps user data in sync until ctx is done. A
// failed first pass is logged and left to the auto-sync job.
func (a *App) Run(ctx context.Context) error {
	defer a.dispose()

	if err := a.services.AutoSync.SyncNow(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Error().Err(err).Msg("initial sync failed")
	}

	err := a.workers.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) dispose() {
	a.services.Sync.Stop()
	a.subscriptions.Dispose()
	a.services.Sync.Dispose()
}
