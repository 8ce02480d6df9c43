// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

const lastSyncTimeKey = "sync.lastSyncTime"

type userDataSyncService struct {
	client     adapter.StoreClient
	storages   *store.ClientStorages
	kv         store.KeyValueStore
	profiles   store.ProfileRegistry
	enablement EnablementService
	ids        utils.IDGenerator
	machine    *machineIdentity
	logger     *logger.Logger

	mu            sync.Mutex
	synchronizers map[string]*profileSynchronizer
	order         []string
	current       *syncTask
	status        models.SyncStatus

	onDidChangeStatus       *utils.Emitter[models.SyncStatus]
	onDidChangeConflicts    *utils.Emitter[[]models.Conflict]
	onDidChangeLocal        *utils.Emitter[models.SyncResource]
	onSyncErrors            *utils.Emitter[[]*app.SyncResourceError]
	onDidResetLocal         *utils.Emitter[struct{}]
	onDidResetRemote        *utils.Emitter[struct{}]
	onDidChangeLastSyncTime *utils.Emitter[time.Time]

	disposables utils.DisposableStore
}

// NewUserDataSyncService wires the sync engine over client and the client
// stores. A session change reported by the store client resets all local
// sync state.
func NewUserDataSyncService(
	client adapter.StoreClient,
	storages *store.ClientStorages,
	enablement EnablementService,
	ids utils.IDGenerator,
	logger *logger.Logger,
) UserDataSyncService {
	s := &userDataSyncService{
		client:                  client,
		storages:                storages,
		kv:                      storages.KeyValue,
		profiles:                storages.Profiles,
		enablement:              enablement,
		ids:                     ids,
		machine:                 &machineIdentity{kv: storages.KeyValue, ids: ids},
		logger:                  logger,
		synchronizers:           make(map[string]*profileSynchronizer),
		status:                  models.SyncStatusIdle,
		onDidChangeStatus:       utils.NewEmitter[models.SyncStatus](),
		onDidChangeConflicts:    utils.NewEmitter[[]models.Conflict](),
		onDidChangeLocal:        utils.NewEmitter[models.SyncResource](),
		onSyncErrors:            utils.NewEmitter[[]*app.SyncResourceError](),
		onDidResetLocal:         utils.NewEmitter[struct{}](),
		onDidResetRemote:        utils.NewEmitter[struct{}](),
		onDidChangeLastSyncTime: utils.NewEmitter[time.Time](),
	}

	s.disposables.Add(client.OnSessionChanged(func(change adapter.SessionChange) {
		if change.Previous == "" {
			return
		}
		s.logger.Info().
			Str("previous", change.Previous).
			Str("current", change.Current).
			Msg("remote store session changed, resetting local sync state")
		if err := s.ResetLocal(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("failed to reset local sync state")
		}
	}))

	return s
}

func profileKey(profileID, collection string) string {
	return profileID + "|" + collection
}

// profileSynchronizer returns the cached synchronizer set of profile in
// collection, creating it on first use.
func (s *userDataSyncService) profileSynchronizer(profile models.Profile, collection string) (*profileSynchronizer, error) {
	key := profileKey(profile.ID, collection)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ps, ok := s.synchronizers[key]; ok {
		return ps, nil
	}

	ps, err := newProfileSynchronizer(profile, collection, s.client, s.storages, s.enablement, s.machine, s.logger)
	if err != nil {
		return nil, err
	}
	ps.OnDidChangeStatus(func(models.SyncStatus) { s.updateStatus() })
	ps.OnDidChangeConflicts(func([]models.Conflict) { s.onDidChangeConflicts.Fire(s.Conflicts()) })
	ps.OnDidChangeLocal(s.onDidChangeLocal.Fire)

	s.synchronizers[key] = ps
	s.order = append(s.order, key)
	return ps, nil
}

// dropStaleProfileSynchronizers resets and disposes the synchronizers of
// profiles that are no longer in profiles.
func (s *userDataSyncService) dropStaleProfileSynchronizers(ctx context.Context, profiles []models.Profile) {
	active := make(map[string]struct{}, len(profiles)+1)
	active[profileKey(models.DefaultProfileID, "")] = struct{}{}
	for _, p := range profiles {
		active[profileKey(p.ID, p.Collection)] = struct{}{}
	}

	s.mu.Lock()
	var stale []*profileSynchronizer
	order := s.order[:0]
	for _, key := range s.order {
		if _, ok := active[key]; ok {
			order = append(order, key)
			continue
		}
		stale = append(stale, s.synchronizers[key])
		delete(s.synchronizers, key)
	}
	s.order = order
	s.mu.Unlock()

	for _, ps := range stale {
		s.logger.Info().Str("profile", ps.Profile().ID).Msg("dropping synchronizers of removed profile")
		if err := ps.ResetLocal(ctx); err != nil {
			s.logger.Warn().Err(err).Str("profile", ps.Profile().ID).Msg("failed to reset removed profile")
		}
		ps.Dispose()
	}
}

func (s *userDataSyncService) cachedSynchronizers() []*profileSynchronizer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*profileSynchronizer, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.synchronizers[key])
	}
	return out
}

// findProfile resolves a profile id and its collection.
func (s *userDataSyncService) findProfile(ctx context.Context, profileID string) (models.Profile, string, error) {
	if profileID == "" || profileID == models.DefaultProfileID {
		return models.DefaultProfile(), "", nil
	}

	profiles, err := s.profiles.Profiles(ctx)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("read profiles: %w", err)
	}
	for _, p := range profiles {
		if p.ID == profileID && p.Collection != "" {
			return p, p.Collection, nil
		}
	}
	return models.Profile{}, "", fmt.Errorf("%w: %s", ErrUnknownProfile, profileID)
}

func (s *userDataSyncService) resourceSynchronizer(ctx context.Context, profileID string, resource models.SyncResource) (ResourceSynchronizer, error) {
	profile, collection, err := s.findProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ps, err := s.profileSynchronizer(profile, collection)
	if err != nil {
		return nil, err
	}
	rs, ok := ps.Synchronizer(resource)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	return rs, nil
}

func (s *userDataSyncService) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *userDataSyncService) updateStatus() {
	status := models.SyncStatusIdle

	s.mu.Lock()
	running := s.current != nil
	s.mu.Unlock()

	if running {
		status = models.SyncStatusSyncing
	} else {
		for _, ps := range s.cachedSynchronizers() {
			if ps.Status() == models.SyncStatusHasConflicts {
				status = models.SyncStatusHasConflicts
				break
			}
		}
	}

	s.mu.Lock()
	changed := s.status != status
	s.status = status
	s.mu.Unlock()

	if changed {
		s.logger.Debug().Str("status", status.String()).Msg("sync status changed")
		s.onDidChangeStatus.Fire(status)
	}
}

func (s *userDataSyncService) Conflicts() []models.Conflict {
	var conflicts []models.Conflict
	for _, ps := range s.cachedSynchronizers() {
		conflicts = append(conflicts, ps.Conflicts()...)
	}
	return conflicts
}

func (s *userDataSyncService) CreateSyncTask(ctx context.Context, manifest *models.Manifest) (SyncTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, ErrSyncInProgress
	}

	executionID := s.ids.Generate()
	s.logger.Trace().Str("execution_id", executionID).Msg("created sync task")
	task := &syncTask{service: s, executionID: executionID}
	task.manifest.Store(manifest)
	return task, nil
}

func (s *userDataSyncService) beginTask(t *syncTask) error {
	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return ErrSyncInProgress
	}
	s.current = t
	s.mu.Unlock()

	s.updateStatus()
	return nil
}

func (s *userDataSyncService) endTask(t *syncTask) {
	s.mu.Lock()
	if s.current == t {
		s.current = nil
	}
	s.mu.Unlock()

	s.updateStatus()
}

func (s *userDataSyncService) Stop() {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil {
		current.Stop()
	}
}

func (s *userDataSyncService) Accept(ctx context.Context, profileID string, resource models.SyncResource, previewResource string, content []byte, apply bool) error {
	rs, err := s.resourceSynchronizer(ctx, profileID, resource)
	if err != nil {
		return err
	}
	if _, err = rs.Accept(ctx, previewResource, content); err != nil {
		return err
	}
	if !apply {
		return nil
	}
	_, err = rs.Apply(ctx, false)
	return err
}

func (s *userDataSyncService) Replace(ctx context.Context, profileID string, resource models.SyncResource, ref string) error {
	rs, err := s.resourceSynchronizer(ctx, profileID, resource)
	if err != nil {
		return err
	}

	raw, err := s.client.ResolveResourceContent(ctx, resource, ref, rs.Collection())
	if err != nil {
		return err
	}

	var content []byte
	if raw != nil {
		syncData, err := decodeSyncData(raw)
		if err != nil {
			return err
		}
		content = []byte(syncData.Content)
	}

	s.logger.Info().Str("resource", resource.String()).Str("ref", ref).Msg("replacing resource")
	return rs.Replace(ctx, content)
}

func (s *userDataSyncService) ResourceHistory(ctx context.Context, profileID string, resource models.SyncResource) ([]models.ResourceRef, error) {
	rs, err := s.resourceSynchronizer(ctx, profileID, resource)
	if err != nil {
		return nil, err
	}
	return s.client.ListResourceRefs(ctx, resource, rs.Collection())
}

func (s *userDataSyncService) HasLocalData(ctx context.Context) (bool, error) {
	def, err := s.profileSynchronizer(models.DefaultProfile(), "")
	if err != nil {
		return false, err
	}
	return def.HasLocalData(ctx)
}

func (s *userDataSyncService) HasPreviouslySynced(ctx context.Context) (bool, error) {
	def, err := s.profileSynchronizer(models.DefaultProfile(), "")
	if err != nil {
		return false, err
	}
	return def.HasPreviouslySynced(ctx)
}

func (s *userDataSyncService) Reset(ctx context.Context) error {
	if err := s.ResetRemote(ctx); err != nil {
		return err
	}
	return s.ResetLocal(ctx)
}

func (s *userDataSyncService) ResetRemote(ctx context.Context) error {
	if err := s.client.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to reset remote data")
		return err
	}
	s.logger.Info().Msg("did reset remote data")
	s.onDidResetRemote.Fire(struct{}{})
	return nil
}

func (s *userDataSyncService) ResetLocal(ctx context.Context) error {
	s.mu.Lock()
	cached := make([]*profileSynchronizer, 0, len(s.order))
	for _, key := range s.order {
		cached = append(cached, s.synchronizers[key])
	}
	s.synchronizers = make(map[string]*profileSynchronizer)
	s.order = nil
	s.mu.Unlock()

	for _, ps := range cached {
		ps.Dispose()
	}

	keys, err := s.kv.Keys(ctx, "")
	if err != nil {
		return fmt.Errorf("list sync state: %w", err)
	}
	for _, key := range keys {
		if !strings.HasSuffix(key, lastSyncKeySuffix) {
			continue
		}
		if err = s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	if err = s.kv.Delete(ctx, lastSyncTimeKey); err != nil {
		return fmt.Errorf("delete last sync time: %w", err)
	}

	s.logger.Info().Msg("did reset local sync state")
	s.onDidResetLocal.Fire(struct{}{})
	s.updateStatus()
	s.onDidChangeConflicts.Fire(nil)
	return nil
}

func (s *userDataSyncService) CleanUpStaleStorageData(ctx context.Context) error {
	profiles, err := s.profiles.Profiles(ctx)
	if err != nil {
		return fmt.Errorf("read profiles: %w", err)
	}
	active := make(map[string]struct{}, len(profiles)+1)
	active[rootKeyPrefix] = struct{}{}
	for _, p := range profiles {
		if p.Collection != "" {
			active[p.Collection] = struct{}{}
		}
	}

	keys, err := s.kv.Keys(ctx, "")
	if err != nil {
		return fmt.Errorf("list sync state: %w", err)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !strings.HasSuffix(key, lastSyncKeySuffix) {
			continue
		}
		collection, _, _ := strings.Cut(key, ".")
		if _, ok := active[collection]; ok {
			continue
		}
		if err = s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		s.logger.Debug().Str("key", key).Msg("removed stale last sync data")
	}
	return nil
}

// LastSyncTime returns the zero time when no sync completed yet.
func (s *userDataSyncService) LastSyncTime(ctx context.Context) (time.Time, error) {
	raw, err := s.kv.Get(ctx, lastSyncTimeKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read last sync time: %w", err)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last sync time: %w", err)
	}
	return time.UnixMilli(ms), nil
}

func (s *userDataSyncService) updateLastSyncTime(ctx context.Context, t time.Time) error {
	if err := s.kv.Set(ctx, lastSyncTimeKey, strconv.FormatInt(t.UnixMilli(), 10)); err != nil {
		return err
	}
	s.onDidChangeLastSyncTime.Fire(t)
	return nil
}

func (s *userDataSyncService) OnDidChangeStatus(fn func(models.SyncStatus)) utils.Disposable {
	return s.onDidChangeStatus.Subscribe(fn)
}

func (s *userDataSyncService) OnDidChangeConflicts(fn func([]models.Conflict)) utils.Disposable {
	return s.onDidChangeConflicts.Subscribe(fn)
}

func (s *userDataSyncService) OnDidChangeLocal(fn func(models.SyncResource)) utils.Disposable {
	return s.onDidChangeLocal.Subscribe(fn)
}

func (s *userDataSyncService) OnSyncErrors(fn func([]*app.SyncResourceError)) utils.Disposable {
	return s.onSyncErrors.Subscribe(fn)
}

func (s *userDataSyncService) OnDidResetLocal(fn func(struct{})) utils.Disposable {
	return s.onDidResetLocal.Subscribe(fn)
}

func (s *userDataSyncService) OnDidResetRemote(fn func(struct{})) utils.Disposable {
	return s.onDidResetRemote.Subscribe(fn)
}

func (s *userDataSyncService) OnDidChangeLastSyncTime(fn func(time.Time)) utils.Disposable {
	return s.onDidChangeLastSyncTime.Subscribe(fn)
}

func (s *userDataSyncService) Dispose() {
	s.disposables.Dispose()

	s.mu.Lock()
	cached := s.synchronizers
	s.synchronizers = make(map[string]*profileSynchronizer)
	s.order = nil
	s.mu.Unlock()

	for _, ps := range cached {
		ps.Dispose()
	}

	s.onDidChangeStatus.Dispose()
	s.onDidChangeConflicts.Dispose()
	s.onDidChangeLocal.Dispose()
	s.onSyncErrors.Dispose()
	s.onDidResetLocal.Dispose()
	s.onDidResetRemote.Dispose()
	s.onDidChangeLastSyncTime.Dispose()
}
