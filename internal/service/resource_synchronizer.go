// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

const (
	lastSyncKeySuffix = ".lastSyncUserData"
	rootKeyPrefix     = "sync"
	machineIDKey      = "sync.machine-id"
)

// lastSyncKey is where the last sync data of resource in collection is kept.
func lastSyncKey(collection string, resource models.SyncResource) string {
	prefix := collection
	if prefix == "" {
		prefix = rootKeyPrefix
	}
	return prefix + "." + resource.String() + lastSyncKeySuffix
}

// machineIdentity lazily creates and persists the id written into every
// sync data envelope.
type machineIdentity struct {
	kv  store.KeyValueStore
	ids utils.IDGenerator

	mu sync.Mutex
	id string
}

func (m *machineIdentity) ID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.id != "" {
		return m.id, nil
	}

	id, err := m.kv.Get(ctx, machineIDKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		id = m.ids.Generate()
		if err = m.kv.Set(ctx, machineIDKey, id); err != nil {
			return "", fmt.Errorf("store machine id: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("read machine id: %w", err)
	}

	m.id = id
	return id, nil
}

// pendingSync is a computed but not yet applied sync of one resource.
type pendingSync struct {
	preview models.ResourcePreview
	remote  models.RemoteUserData
}

type resourceSynchronizer struct {
	resource   models.SyncResource
	profile    string
	collection string

	handler resourceHandler
	client  adapter.StoreClient
	kv      store.KeyValueStore
	machine *machineIdentity
	logger  *logger.Logger

	// opMu serializes sync, accept and apply.
	opMu sync.Mutex

	stateMu sync.Mutex
	status  models.SyncStatus
	pending *pendingSync

	onDidChangeStatus    *utils.Emitter[models.SyncStatus]
	onDidChangeConflicts *utils.Emitter[[]models.ResourcePreviewEntry]
	onDidChangeLocal     *utils.Emitter[models.SyncResource]
}

func newResourceSynchronizer(
	resource models.SyncResource,
	profile models.Profile,
	collection string,
	handler resourceHandler,
	client adapter.StoreClient,
	kv store.KeyValueStore,
	machine *machineIdentity,
	logger *logger.Logger,
) *resourceSynchronizer {
	return &resourceSynchronizer{
		resource:             resource,
		profile:              profile.ID,
		collection:           collection,
		handler:              handler,
		client:               client,
		kv:                   kv,
		machine:              machine,
		logger:               logger.ForResource(profile.ID, resource.String()),
		status:               models.SyncStatusIdle,
		onDidChangeStatus:    utils.NewEmitter[models.SyncStatus](),
		onDidChangeConflicts: utils.NewEmitter[[]models.ResourcePreviewEntry](),
		onDidChangeLocal:     utils.NewEmitter[models.SyncResource](),
	}
}

func (s *resourceSynchronizer) Resource() models.SyncResource { return s.resource }
func (s *resourceSynchronizer) Collection() string            { return s.collection }

func (s *resourceSynchronizer) Status() models.SyncStatus {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.status
}

func (s *resourceSynchronizer) Conflicts() []models.ResourcePreviewEntry {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return conflictsOf(s.pending)
}

func conflictsOf(p *pendingSync) []models.ResourcePreviewEntry {
	if p == nil {
		return nil
	}
	var conflicts []models.ResourcePreviewEntry
	for _, e := range p.preview.ResourcePreviews {
		if e.HasConflicts && !e.Accepted {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

func (s *resourceSynchronizer) setState(status models.SyncStatus, pending *pendingSync) {
	s.stateMu.Lock()
	prevStatus := s.status
	prevConflicts := len(conflictsOf(s.pending))
	s.status = status
	s.pending = pending
	conflicts := conflictsOf(pending)
	s.stateMu.Unlock()

	if prevStatus != status {
		s.onDidChangeStatus.Fire(status)
	}
	if prevConflicts != 0 || len(conflicts) != 0 {
		s.onDidChangeConflicts.Fire(conflicts)
	}
}

func (s *resourceSynchronizer) currentPending() *pendingSync {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.pending
}

func (s *resourceSynchronizer) Sync(ctx context.Context, manifest *models.Manifest, preview bool) (*models.ResourcePreview, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if p := s.currentPending(); p != nil && p.preview.HasConflicts() {
		s.logger.Info().Msg("skipped synchronizing, resource has conflicts to resolve")
		return clonePreview(p.preview), nil
	}

	s.setState(models.SyncStatusSyncing, nil)

	result, err := s.sync(ctx, manifest, preview)
	if err != nil {
		s.setState(models.SyncStatusIdle, nil)
		return nil, err
	}
	return result, nil
}

func (s *resourceSynchronizer) sync(ctx context.Context, manifest *models.Manifest, preview bool) (*models.ResourcePreview, error) {
	lastSync, err := s.LastSyncUserData(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := s.remoteUserData(ctx, manifest, lastSync)
	if err != nil {
		return nil, err
	}

	local, err := s.handler.ReadLocal(ctx)
	if err != nil {
		return nil, err
	}

	base := lastSync.Content()
	if local == nil && base != nil {
		local = s.handler.Empty()
	}
	remoteContent := remote.Content()

	localChanged := local != nil && (!jsonEqual(local, base) || remoteContent == nil)
	remoteChanged := remoteContent != nil && !jsonEqual(remoteContent, base)

	var (
		merged   []byte
		conflict bool
	)
	switch {
	case !localChanged && !remoteChanged:
		s.logger.Trace().Msg("no changes found during synchronizing")
		if lastSync == nil || lastSync.Ref != remote.Ref {
			if err = s.updateLastSyncUserData(ctx, remote); err != nil {
				return nil, err
			}
		}
		s.setState(models.SyncStatusIdle, nil)
		return nil, nil

	case localChanged && !remoteChanged:
		if err = s.handler.Validate(local); err != nil {
			return nil, err
		}
		merged = local

	case !localChanged && remoteChanged:
		merged = remoteContent

	case jsonEqual(local, remoteContent):
		merged = remoteContent

	default:
		s.logger.Debug().Msg("local and remote changed, merging")
		merged, conflict, err = s.handler.Merger().Merge(base, local, remoteContent)
		if err != nil {
			return nil, err
		}
	}

	entry := models.ResourcePreviewEntry{
		Resource:        s.resource,
		PreviewResource: s.handler.PreviewResource(),
		LocalContent:    local,
		RemoteContent:   remoteContent,
		PreviewContent:  merged,
		HasConflicts:    conflict,
	}
	pending := &pendingSync{remote: remote, preview: newPreview(entry)}

	if conflict {
		s.logger.Info().Msg("detected conflicts while synchronizing")
		s.setState(models.SyncStatusHasConflicts, pending)
		return clonePreview(pending.preview), nil
	}
	if preview {
		s.setState(models.SyncStatusIdle, pending)
		return clonePreview(pending.preview), nil
	}

	s.setState(models.SyncStatusSyncing, pending)
	return s.apply(ctx, false)
}

// remoteUserData resolves what the store holds, skipping the request when the
// manifest proves the last synced version is still the latest.
func (s *resourceSynchronizer) remoteUserData(ctx context.Context, manifest *models.Manifest, lastSync *models.LastSyncUserData) (models.RemoteUserData, error) {
	ref := manifest.LatestRef(s.collection, s.resource)

	if lastSync != nil && ref != "" && ref == lastSync.Ref {
		return *lastSync, nil
	}
	if ref == "" && (lastSync == nil || lastSync.Ref == models.InitialRef) {
		return models.InitialUserData(), nil
	}

	return s.readRemote(ctx, lastSync)
}

func (s *resourceSynchronizer) readRemote(ctx context.Context, lastSync *models.LastSyncUserData) (models.RemoteUserData, error) {
	var old *models.UserData
	if lastSync != nil && lastSync.Ref != models.InitialRef {
		old = &models.UserData{Ref: lastSync.Ref}
		if lastSync.SyncData != nil {
			raw, err := json.Marshal(lastSync.SyncData)
			if err != nil {
				return models.RemoteUserData{}, fmt.Errorf("encode last sync data: %w", err)
			}
			old.Content = raw
		}
	}

	data, err := s.client.ReadResource(ctx, s.resource, old, s.collection)
	if err != nil {
		return models.RemoteUserData{}, err
	}
	return decodeUserData(data)
}

// decodeUserData unwraps the sync data envelope of a stored resource.
func decodeUserData(data models.UserData) (models.RemoteUserData, error) {
	if data.Content == nil {
		return models.RemoteUserData{Ref: data.Ref}, nil
	}

	syncData, err := decodeSyncData(data.Content)
	if err != nil {
		return models.RemoteUserData{}, err
	}
	return models.RemoteUserData{Ref: data.Ref, SyncData: syncData}, nil
}

func decodeSyncData(raw []byte) (*models.SyncData, error) {
	var syncData models.SyncData
	if err := json.Unmarshal(raw, &syncData); err != nil {
		return nil, app.NewSyncError(app.CodeIncompatibleRemoteContent, "cannot parse sync data: "+err.Error())
	}
	if syncData.Version > models.SyncDataVersion {
		return nil, app.NewSyncError(app.CodeIncompatibleRemoteContent,
			fmt.Sprintf("cannot parse sync data as it is not compatible with the current version %d", syncData.Version))
	}
	return &syncData, nil
}

func (s *resourceSynchronizer) Accept(ctx context.Context, previewResource string, content []byte) (*models.ResourcePreview, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current := s.currentPending()
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreview, previewResource)
	}
	if content != nil {
		if err := s.handler.Validate(content); err != nil {
			return nil, err
		}
	}

	next := &pendingSync{remote: current.remote, preview: clonePreviewValue(current.preview)}
	found := false
	for i := range next.preview.ResourcePreviews {
		e := &next.preview.ResourcePreviews[i]
		if e.PreviewResource != previewResource {
			continue
		}
		e.PreviewContent = content
		e.Accepted = true
		found = true
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreview, previewResource)
	}
	next.preview = newPreview(next.preview.ResourcePreviews...)

	// Once every conflict is accepted the preview only waits for Apply.
	status := s.Status()
	if status == models.SyncStatusHasConflicts && !next.preview.HasConflicts() {
		status = models.SyncStatusSyncing
	}
	s.setState(status, next)
	return clonePreview(next.preview), nil
}

func (s *resourceSynchronizer) Apply(ctx context.Context, force bool) (*models.ResourcePreview, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	return s.apply(ctx, force)
}

func (s *resourceSynchronizer) apply(ctx context.Context, force bool) (*models.ResourcePreview, error) {
	p := s.currentPending()
	if p == nil {
		return nil, nil
	}
	if p.preview.HasConflicts() && !force {
		return clonePreview(p.preview), nil
	}

	for _, e := range p.preview.ResourcePreviews {
		if err := s.applyContent(ctx, e.PreviewContent, e.LocalContent, p.remote); err != nil {
			s.logger.Error().Err(err).Str("code", string(app.CodeOf(err))).Msg("failed to apply resource")
			s.setState(models.SyncStatusIdle, nil)
			return nil, err
		}
	}

	s.setState(models.SyncStatusIdle, nil)
	return nil, nil
}

// applyContent makes content the value of both sides. local is what was
// read locally and remote what the store held when the preview was computed.
func (s *resourceSynchronizer) applyContent(ctx context.Context, content, local []byte, remote models.RemoteUserData) error {
	if content == nil {
		if local != nil {
			if err := s.handler.WriteLocal(ctx, nil); err != nil {
				return err
			}
			s.onDidChangeLocal.Fire(s.resource)
		}
		if remote.Content() != nil {
			if err := s.client.DeleteResource(ctx, s.resource, "", s.collection); err != nil {
				return err
			}
		}
		return s.updateLastSyncUserData(ctx, models.InitialUserData())
	}

	if !jsonEqual(content, local) {
		s.logger.Trace().Msg("updating local resource")
		if err := s.handler.WriteLocal(ctx, content); err != nil {
			return err
		}
		s.onDidChangeLocal.Fire(s.resource)
		s.logger.Info().Msg("updated local resource")
	}

	if jsonEqual(content, remote.Content()) {
		return s.updateLastSyncUserData(ctx, remote)
	}

	s.logger.Trace().Str("ref", remote.Ref).Msg("updating remote resource")
	machineID, err := s.machine.ID(ctx)
	if err != nil {
		return err
	}
	syncData := &models.SyncData{
		Version:   models.SyncDataVersion,
		MachineID: machineID,
		Content:   string(content),
	}
	raw, err := json.Marshal(syncData)
	if err != nil {
		return fmt.Errorf("encode sync data: %w", err)
	}

	ref, err := s.client.WriteResource(ctx, s.resource, raw, remote.Ref, s.collection)
	if err != nil {
		return err
	}
	s.logger.Info().Str("ref", ref).Msg("updated remote resource")

	return s.updateLastSyncUserData(ctx, models.RemoteUserData{Ref: ref, SyncData: syncData})
}

func (s *resourceSynchronizer) Discard() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setState(models.SyncStatusIdle, nil)
}

func (s *resourceSynchronizer) Replace(ctx context.Context, content []byte) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if content != nil {
		if err := s.handler.Validate(content); err != nil {
			return err
		}
	}

	lastSync, err := s.LastSyncUserData(ctx)
	if err != nil {
		return err
	}
	remote, err := s.readRemote(ctx, lastSync)
	if err != nil {
		return err
	}
	local, err := s.handler.ReadLocal(ctx)
	if err != nil {
		return err
	}

	s.setState(models.SyncStatusIdle, nil)
	return s.applyContent(ctx, content, local, remote)
}

func (s *resourceSynchronizer) ResetLocal(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.kv.Delete(ctx, lastSyncKey(s.collection, s.resource)); err != nil {
		return fmt.Errorf("delete last sync data: %w", err)
	}
	s.setState(models.SyncStatusIdle, nil)
	s.logger.Info().Msg("did reset local sync state")
	return nil
}

func (s *resourceSynchronizer) HasLocalData(ctx context.Context) (bool, error) {
	local, err := s.handler.ReadLocal(ctx)
	if err != nil {
		return false, err
	}
	return local != nil, nil
}

func (s *resourceSynchronizer) HasPreviouslySynced(ctx context.Context) (bool, error) {
	lastSync, err := s.LastSyncUserData(ctx)
	if err != nil {
		return false, err
	}
	return lastSync != nil, nil
}

// LastSyncUserData returns nil when the resource was never synced.
func (s *resourceSynchronizer) LastSyncUserData(ctx context.Context) (*models.LastSyncUserData, error) {
	raw, err := s.kv.Get(ctx, lastSyncKey(s.collection, s.resource))
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read last sync data: %w", err)
	}

	var lastSync models.LastSyncUserData
	if err = json.Unmarshal([]byte(raw), &lastSync); err != nil {
		s.logger.Warn().Err(err).Msg("ignoring unreadable last sync data")
		return nil, nil
	}
	return &lastSync, nil
}

func (s *resourceSynchronizer) updateLastSyncUserData(ctx context.Context, data models.LastSyncUserData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode last sync data: %w", err)
	}
	if err = s.kv.Set(ctx, lastSyncKey(s.collection, s.resource), string(raw)); err != nil {
		return fmt.Errorf("store last sync data: %w", err)
	}
	s.logger.Trace().Str("ref", data.Ref).Msg("updated last sync data")
	return nil
}

func (s *resourceSynchronizer) OnDidChangeStatus(fn func(models.SyncStatus)) utils.Disposable {
	return s.onDidChangeStatus.Subscribe(fn)
}

func (s *resourceSynchronizer) OnDidChangeConflicts(fn func([]models.ResourcePreviewEntry)) utils.Disposable {
	return s.onDidChangeConflicts.Subscribe(fn)
}

func (s *resourceSynchronizer) OnDidChangeLocal(fn func(models.SyncResource)) utils.Disposable {
	return s.onDidChangeLocal.Subscribe(fn)
}

func (s *resourceSynchronizer) Dispose() {
	s.onDidChangeStatus.Dispose()
	s.onDidChangeConflicts.Dispose()
	s.onDidChangeLocal.Dispose()
}

// newPreview builds a preview and derives the per-side changes of every
// entry from its contents.
func newPreview(entries ...models.ResourcePreviewEntry) models.ResourcePreview {
	preview := models.ResourcePreview{ResourcePreviews: entries}
	for i := range preview.ResourcePreviews {
		e := &preview.ResourcePreviews[i]
		e.LocalChange = changeOf(e.LocalContent, e.PreviewContent)
		e.RemoteChange = changeOf(e.RemoteContent, e.PreviewContent)
		if e.LocalChange != models.ChangeNone {
			preview.HasLocalChanged = true
		}
		if e.RemoteChange != models.ChangeNone {
			preview.HasRemoteChanged = true
		}
	}
	return preview
}

func changeOf(from, to []byte) models.Change {
	switch {
	case from == nil && to == nil:
		return models.ChangeNone
	case from == nil:
		return models.ChangeAdded
	case to == nil:
		return models.ChangeDeleted
	case jsonEqual(from, to):
		return models.ChangeNone
	}
	return models.ChangeModified
}

func clonePreviewValue(p models.ResourcePreview) models.ResourcePreview {
	c := p
	c.ResourcePreviews = append([]models.ResourcePreviewEntry(nil), p.ResourcePreviews...)
	return c
}

func clonePreview(p models.ResourcePreview) *models.ResourcePreview {
	c := clonePreviewValue(p)
	return &c
}
