// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

// Merger resolves a resource that changed both locally and remotely since the
// last sync. base is the last synced content and may be nil.
//
// When hasConflicts is true, merged is the local-wins resolution that apply
// uses unless the caller accepts something else.
type Merger interface {
	Merge(base, local, remote []byte) (merged []byte, hasConflicts bool, err error)
}

// ResourceSynchronizer runs one resource kind of one profile through the
// merge/preview/apply state machine against the remote store.
type ResourceSynchronizer interface {
	Resource() models.SyncResource
	Collection() string
	Status() models.SyncStatus

	// Conflicts returns the preview entries still waiting for a decision.
	Conflicts() []models.ResourcePreviewEntry

	// Sync compares local, last synced and remote content and applies the
	// outcome. With preview set, or when the merge has conflicts, nothing is
	// written and the pending preview is returned instead. A nil manifest
	// means the store holds no data.
	Sync(ctx context.Context, manifest *models.Manifest, preview bool) (*models.ResourcePreview, error)

	// Accept records content as the resolution of one preview entry. A nil
	// content deletes the resource on both sides.
	Accept(ctx context.Context, previewResource string, content []byte) (*models.ResourcePreview, error)

	// Apply commits the pending preview. Without force it refuses to commit
	// while conflicts are unresolved and returns the preview. A nil result
	// means nothing is left to apply.
	Apply(ctx context.Context, force bool) (*models.ResourcePreview, error)

	// Discard drops the pending preview.
	Discard()

	// Replace makes content the current value on both sides.
	Replace(ctx context.Context, content []byte) error

	ResetLocal(ctx context.Context) error
	HasLocalData(ctx context.Context) (bool, error)
	HasPreviouslySynced(ctx context.Context) (bool, error)
	LastSyncUserData(ctx context.Context) (*models.LastSyncUserData, error)

	OnDidChangeStatus(fn func(models.SyncStatus)) utils.Disposable
	OnDidChangeConflicts(fn func([]models.ResourcePreviewEntry)) utils.Disposable
	OnDidChangeLocal(fn func(models.SyncResource)) utils.Disposable

	Dispose()
}

// SyncTask is one end-to-end synchronization pass.
type SyncTask interface {
	// Manifest returns the manifest the task was created with or fetched by
	// Run, possibly nil. It may be called while Run is in progress.
	Manifest() *models.Manifest

	// Run executes the pass. It can be called once; further calls fail with
	// ErrTaskAlreadyRun.
	Run(ctx context.Context) error

	// Stop asks a running pass to stop before the next resource kind.
	Stop()
}

// UserDataSyncService is the process-wide entry point of the sync engine.
type UserDataSyncService interface {
	Status() models.SyncStatus
	Conflicts() []models.Conflict
	LastSyncTime(ctx context.Context) (time.Time, error)

	// CreateSyncTask fails with ErrSyncInProgress while another task runs.
	CreateSyncTask(ctx context.Context, manifest *models.Manifest) (SyncTask, error)

	// Accept resolves one conflict and, with apply set, commits the resource.
	Accept(ctx context.Context, profileID string, resource models.SyncResource, previewResource string, content []byte, apply bool) error

	// Replace restores the version ref of resource on both sides.
	Replace(ctx context.Context, profileID string, resource models.SyncResource, ref string) error

	// ResourceHistory lists the stored remote versions of resource.
	ResourceHistory(ctx context.Context, profileID string, resource models.SyncResource) ([]models.ResourceRef, error)

	HasLocalData(ctx context.Context) (bool, error)
	HasPreviouslySynced(ctx context.Context) (bool, error)

	// Reset deletes all remote data and forgets everything synced locally.
	Reset(ctx context.Context) error
	ResetRemote(ctx context.Context) error
	ResetLocal(ctx context.Context) error

	// CleanUpStaleStorageData drops last sync data of collections no profile
	// refers to anymore.
	CleanUpStaleStorageData(ctx context.Context) error

	// Stop stops the running task, if any.
	Stop()

	OnDidChangeStatus(fn func(models.SyncStatus)) utils.Disposable
	OnDidChangeConflicts(fn func([]models.Conflict)) utils.Disposable
	OnDidChangeLocal(fn func(models.SyncResource)) utils.Disposable
	OnSyncErrors(fn func([]*app.SyncResourceError)) utils.Disposable
	OnDidResetLocal(fn func(struct{})) utils.Disposable
	OnDidResetRemote(fn func(struct{})) utils.Disposable
	OnDidChangeLastSyncTime(fn func(time.Time)) utils.Disposable

	Dispose()
}

// ResourceEnablement is the payload of
// [EnablementService.OnDidChangeResourceEnablement].
type ResourceEnablement struct {
	Resource models.SyncResource
	Enabled  bool
}

// EnablementService keeps the global and per-resource sync switches.
type EnablementService interface {
	IsEnabled(ctx context.Context) bool
	SetEnablement(ctx context.Context, enabled bool) error
	IsResourceEnabled(ctx context.Context, resource models.SyncResource) bool
	SetResourceEnablement(ctx context.Context, resource models.SyncResource, enabled bool) error

	OnDidChangeEnablement(fn func(bool)) utils.Disposable
	OnDidChangeResourceEnablement(fn func(ResourceEnablement)) utils.Disposable
}

// AutoSyncJob polls the manifest and runs a sync task whenever the remote
// store or the local data changed.
type AutoSyncJob interface {
	// Run polls every interval until ctx is done. A non-positive interval
	// defaults to five minutes.
	Run(ctx context.Context, interval time.Duration) error

	// SyncNow runs one pass immediately.
	SyncNow(ctx context.Context) error

	// NotifyLocalChange marks local data as changed so the next poll syncs
	// even when the manifest is unchanged.
	NotifyLocalChange(path string)

	// WatchLocal feeds local store changes into NotifyLocalChange until ctx
	// is done.
	WatchLocal(ctx context.Context) error
}
