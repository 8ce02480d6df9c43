// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

// profileSynchronizer owns the resource synchronizers of one profile and
// runs them in sync order.
type profileSynchronizer struct {
	profile    models.Profile
	collection string

	synchronizers []ResourceSynchronizer
	enablement    EnablementService
	logger        *logger.Logger

	mu     sync.Mutex
	status models.SyncStatus

	onDidChangeStatus    *utils.Emitter[models.SyncStatus]
	onDidChangeConflicts *utils.Emitter[[]models.Conflict]
	onDidChangeLocal     *utils.Emitter[models.SyncResource]

	disposables utils.DisposableStore
}

func newProfileSynchronizer(
	profile models.Profile,
	collection string,
	client adapter.StoreClient,
	storages *store.ClientStorages,
	enablement EnablementService,
	machine *machineIdentity,
	log *logger.Logger,
) (*profileSynchronizer, error) {
	ps := &profileSynchronizer{
		profile:              profile,
		collection:           collection,
		enablement:           enablement,
		logger:               &logger.Logger{Logger: log.With().Str("profile", profile.ID).Logger()},
		status:               models.SyncStatusIdle,
		onDidChangeStatus:    utils.NewEmitter[models.SyncStatus](),
		onDidChangeConflicts: utils.NewEmitter[[]models.Conflict](),
		onDidChangeLocal:     utils.NewEmitter[models.SyncResource](),
	}

	for _, resource := range profileResources(profile) {
		handler, err := newResourceHandler(resource, profile, storages.Local, storages.Profiles)
		if err != nil {
			ps.Dispose()
			return nil, err
		}
		rs := newResourceSynchronizer(resource, profile, collection, handler, client, storages.KeyValue, machine, log)
		ps.add(rs)
	}

	return ps, nil
}

func (p *profileSynchronizer) add(rs ResourceSynchronizer) {
	p.synchronizers = append(p.synchronizers, rs)
	p.disposables.Add(rs.OnDidChangeStatus(func(models.SyncStatus) { p.updateStatus() }))
	p.disposables.Add(rs.OnDidChangeConflicts(func([]models.ResourcePreviewEntry) {
		p.onDidChangeConflicts.Fire(p.Conflicts())
	}))
	p.disposables.Add(rs.OnDidChangeLocal(p.onDidChangeLocal.Fire))
	p.disposables.Add(rs)
}

func (p *profileSynchronizer) Profile() models.Profile { return p.profile }
func (p *profileSynchronizer) Collection() string       { return p.collection }

func (p *profileSynchronizer) Status() models.SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *profileSynchronizer) updateStatus() {
	status := models.SyncStatusIdle
	for _, rs := range p.synchronizers {
		switch rs.Status() {
		case models.SyncStatusHasConflicts:
			status = models.SyncStatusHasConflicts
		case models.SyncStatusSyncing:
			if status == models.SyncStatusIdle {
				status = models.SyncStatusSyncing
			}
		}
	}

	p.mu.Lock()
	changed := p.status != status
	p.status = status
	p.mu.Unlock()

	if changed {
		p.onDidChangeStatus.Fire(status)
	}
}

// Conflicts lists the unresolved conflicts of every resource kind.
func (p *profileSynchronizer) Conflicts() []models.Conflict {
	var conflicts []models.Conflict
	for _, rs := range p.synchronizers {
		if entries := rs.Conflicts(); len(entries) > 0 {
			conflicts = append(conflicts, models.Conflict{
				Profile:          p.profile.ID,
				SyncResource:     rs.Resource(),
				PreviewResources: entries,
			})
		}
	}
	return conflicts
}

func (p *profileSynchronizer) Synchronizer(resource models.SyncResource) (ResourceSynchronizer, bool) {
	for _, rs := range p.synchronizers {
		if rs.Resource() == resource {
			return rs, true
		}
	}
	return nil, false
}

// Sync runs every enabled resource kind. Failures are isolated per kind and
// returned in the list; a bail-out failure or a cancelled ctx stops the pass
// and is returned as the error.
func (p *profileSynchronizer) Sync(ctx context.Context, manifest *models.Manifest, stopped func() bool) ([]*app.SyncResourceError, error) {
	var errs []*app.SyncResourceError

	for _, rs := range p.synchronizers {
		if err := ctx.Err(); err != nil {
			return errs, err
		}
		if stopped() {
			return errs, nil
		}

		syncErr := p.syncResource(ctx, rs, manifest)
		if syncErr == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return errs, err
		}
		if app.CanBailout(syncErr) {
			return errs, syncErr
		}
		errs = append(errs, &app.SyncResourceError{Profile: p.profile.ID, Resource: rs.Resource(), Err: syncErr})
	}

	return errs, nil
}

// SyncResource runs a single resource kind when it is enabled.
func (p *profileSynchronizer) SyncResource(ctx context.Context, resource models.SyncResource, manifest *models.Manifest) error {
	rs, ok := p.Synchronizer(resource)
	if !ok {
		return ErrUnknownResource
	}
	if err := p.syncResource(ctx, rs, manifest); err != nil {
		return err
	}
	return nil
}

func (p *profileSynchronizer) syncResource(ctx context.Context, rs ResourceSynchronizer, manifest *models.Manifest) *app.SyncError {
	if !p.enablement.IsResourceEnabled(ctx, rs.Resource()) {
		p.logger.Trace().Str("resource", rs.Resource().String()).Msg("skipping disabled resource")
		return nil
	}

	if _, err := rs.Sync(ctx, manifest, false); err != nil {
		syncErr := app.ToSyncError(err).WithResource(rs.Resource())
		p.logger.Error().
			Err(err).
			Str("resource", rs.Resource().String()).
			Str("code", string(syncErr.Code)).
			Msg("error while syncing resource")
		return syncErr
	}
	return nil
}

func (p *profileSynchronizer) HasLocalData(ctx context.Context) (bool, error) {
	for _, rs := range p.synchronizers {
		if !p.enablement.IsResourceEnabled(ctx, rs.Resource()) {
			continue
		}
		ok, err := rs.HasLocalData(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (p *profileSynchronizer) HasPreviouslySynced(ctx context.Context) (bool, error) {
	for _, rs := range p.synchronizers {
		ok, err := rs.HasPreviouslySynced(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (p *profileSynchronizer) ResetLocal(ctx context.Context) error {
	for _, rs := range p.synchronizers {
		if err := rs.ResetLocal(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *profileSynchronizer) OnDidChangeStatus(fn func(models.SyncStatus)) utils.Disposable {
	return p.onDidChangeStatus.Subscribe(fn)
}

func (p *profileSynchronizer) OnDidChangeConflicts(fn func([]models.Conflict)) utils.Disposable {
	return p.onDidChangeConflicts.Subscribe(fn)
}

func (p *profileSynchronizer) OnDidChangeLocal(fn func(models.SyncResource)) utils.Disposable {
	return p.onDidChangeLocal.Subscribe(fn)
}

func (p *profileSynchronizer) Dispose() {
	p.disposables.Dispose()
	p.onDidChangeStatus.Dispose()
	p.onDidChangeConflicts.Dispose()
	p.onDidChangeLocal.Dispose()
}
