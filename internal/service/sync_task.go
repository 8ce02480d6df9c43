// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

// MaxProfiles is the number of non-default profiles a sync pass accepts.
const MaxProfiles = 20

type syncTask struct {
	service     *userDataSyncService
	executionID string

	// manifest is fetched by Run when the task was created without one.
	manifest atomic.Pointer[models.Manifest]

	started atomic.Bool
	stopped atomic.Bool
}

func (t *syncTask) Manifest() *models.Manifest {
	return t.manifest.Load()
}

func (t *syncTask) Stop() {
	t.stopped.Store(true)
}

func (t *syncTask) Run(ctx context.Context) error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrTaskAlreadyRun
	}

	s := t.service
	if err := s.beginTask(t); err != nil {
		return err
	}
	defer s.endTask(t)

	log := &logger.Logger{Logger: s.logger.With().Str("execution_id", t.executionID).Logger()}
	ctx = utils.WithExecutionID(ctx, t.executionID)
	ctx = log.WithContext(ctx)

	start := time.Now()
	log.Info().Msg("Sync started.")
	defer func() {
		log.Info().Msgf("Sync done. Took %dms", time.Since(start).Milliseconds())
	}()

	syncErrs, err := t.run(ctx)
	if len(syncErrs) > 0 {
		s.onSyncErrors.Fire(syncErrs)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Error().Err(err).Str("code", string(app.CodeOf(err))).Msg("sync aborted")
		return err
	}
	if t.stopped.Load() {
		log.Info().Msg("Sync stopped.")
		return nil
	}

	if err = s.CleanUpStaleStorageData(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to clean up stale sync data")
	}
	if err = s.updateLastSyncTime(ctx, time.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to store last sync time")
	}

	if len(syncErrs) > 0 {
		errs := make([]error, 0, len(syncErrs))
		for _, e := range syncErrs {
			errs = append(errs, e)
		}
		return errors.Join(errs...)
	}
	return nil
}

func (t *syncTask) run(ctx context.Context) ([]*app.SyncResourceError, error) {
	s := t.service

	manifest := t.manifest.Load()
	if manifest == nil {
		fetched, err := s.client.Manifest(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch manifest: %w", err)
		}
		manifest = fetched
		t.manifest.Store(manifest)
	}

	def, err := s.profileSynchronizer(models.DefaultProfile(), "")
	if err != nil {
		return nil, err
	}

	syncErrs, err := def.Sync(ctx, manifest, t.stopped.Load)
	if err != nil || t.stopped.Load() {
		return syncErrs, err
	}

	if !s.enablement.IsResourceEnabled(ctx, models.SyncResourceProfiles) {
		return syncErrs, nil
	}

	profiles, err := t.ensureCollections(ctx, def)
	if err != nil {
		if ctx.Err() != nil || app.CanBailout(err) {
			return syncErrs, err
		}
		syncErrs = append(syncErrs, &app.SyncResourceError{
			Profile:  models.DefaultProfileID,
			Resource: models.SyncResourceProfiles,
			Err:      app.ToSyncError(err).WithResource(models.SyncResourceProfiles),
		})
	}

	if profiles != nil {
		s.dropStaleProfileSynchronizers(ctx, profiles)
	}

	for _, profile := range profiles {
		if err = ctx.Err(); err != nil {
			return syncErrs, err
		}
		if t.stopped.Load() {
			return syncErrs, nil
		}
		if profile.Collection == "" {
			continue
		}

		ps, err := s.profileSynchronizer(profile, profile.Collection)
		if err != nil {
			return syncErrs, err
		}
		errs, err := ps.Sync(ctx, manifest, t.stopped.Load)
		syncErrs = append(syncErrs, errs...)
		if err != nil {
			return syncErrs, err
		}
	}

	return syncErrs, nil
}

// ensureCollections creates a remote collection for every local profile that
// has none yet and republishes the profile list. It returns the non-default
// profiles, also on failure, with the collections created so far.
func (t *syncTask) ensureCollections(ctx context.Context, def *profileSynchronizer) ([]models.Profile, error) {
	s := t.service

	all, err := s.profiles.Profiles(ctx)
	if err != nil {
		return nil, app.NewSyncError(app.CodeLocalError, err.Error()).WithResource(models.SyncResourceProfiles)
	}

	profiles := make([]models.Profile, 0, len(all))
	for _, p := range all {
		if !p.IsDefault() {
			profiles = append(profiles, p)
		}
	}
	if len(profiles) > MaxProfiles {
		return nil, app.NewSyncError(app.CodeTooManyProfiles,
			fmt.Sprintf("%d profiles exceed the limit of %d", len(profiles), MaxProfiles)).
			WithResource(models.SyncResourceProfiles)
	}

	var createErr error
	created := false
	for i := range profiles {
		if profiles[i].Collection != "" {
			continue
		}
		collection, err := s.client.CreateCollection(ctx)
		if err != nil {
			createErr = app.ToSyncError(err).WithResource(models.SyncResourceProfiles)
			break
		}
		s.logger.Info().Str("profile", profiles[i].ID).Str("collection", collection).Msg("created collection for profile")
		profiles[i].Collection = collection
		created = true
	}
	if !created {
		return profiles, createErr
	}

	if err = s.profiles.SaveProfiles(ctx, profiles); err != nil {
		return nil, app.NewSyncError(app.CodeLocalError, err.Error()).WithResource(models.SyncResourceProfiles)
	}
	if err = def.SyncResource(ctx, models.SyncResourceProfiles, t.manifest.Load()); err != nil {
		return profiles, err
	}
	return profiles, createErr
}
