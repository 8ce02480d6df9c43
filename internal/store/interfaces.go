// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-settings-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RemoteRepository is the persistence of the remote store server. Every
// method is scoped to one user; collection "" is the root namespace.
//
// Each mutation bumps a per-user version counter. A written resource takes
// the bumped value as its ref, so refs are unique and increasing per user.
type RemoteRepository interface {
	// Version returns the current counter value (0 for a new user).
	Version(ctx context.Context, userID string) (int64, error)

	// Session returns the user's session or "" when the user holds no data.
	Session(ctx context.Context, userID string) (string, error)
	// EnsureSession stores session unless the user already has one, and
	// returns the effective session.
	EnsureSession(ctx context.Context, userID, session string) (string, error)

	// LatestRefs returns the latest version of every stored resource,
	// without content.
	LatestRefs(ctx context.Context, userID string) ([]models.StoredResource, error)
	// LatestResource returns ErrNotFound when nothing is stored.
	LatestResource(ctx context.Context, userID, collection string, resource models.SyncResource) (models.StoredResource, error)
	// Resource returns one specific version or ErrNotFound.
	Resource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) (models.StoredResource, error)
	// ResourceRefs lists stored versions, newest first.
	ResourceRefs(ctx context.Context, userID, collection string, resource models.SyncResource) ([]models.ResourceRef, error)

	// WriteResource stores a new version and returns its ref. A non-empty
	// ifMatch must equal the latest ref ("0" when nothing is stored),
	// otherwise ErrPreconditionFailed is returned and nothing is written.
	WriteResource(ctx context.Context, userID, collection string, resource models.SyncResource, content []byte, ifMatch string) (string, error)
	// DeleteResource removes one version, or every version when ref is "".
	DeleteResource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) error
	// DeleteResources removes every root resource.
	DeleteResources(ctx context.Context, userID string) error

	CreateCollection(ctx context.Context, userID, collection string) error
	CollectionExists(ctx context.Context, userID, collection string) (bool, error)
	Collections(ctx context.Context, userID string) ([]string, error)
	// DeleteCollection removes the collection with its resources. An empty
	// collection removes every collection.
	DeleteCollection(ctx context.Context, userID, collection string) error

	// Clear removes all data of the user including the session.
	Clear(ctx context.Context, userID string) error
}
