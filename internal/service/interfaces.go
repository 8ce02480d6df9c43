// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-settings-sync/models"
)

// RemoteStoreService is the business layer of the reference remote store.
// Every method is scoped to one user; collection "" is the root namespace.
type RemoteStoreService interface {
	// Manifest returns the latest refs. Its Ref changes with every mutation.
	// An empty Session means the user holds no data.
	Manifest(ctx context.Context, userID string) (*models.Manifest, error)

	// LatestResource returns ErrNoContent when nothing is stored.
	LatestResource(ctx context.Context, userID, collection string, resource models.SyncResource) (models.StoredResource, error)
	// Resource returns one stored version or store.ErrNotFound.
	Resource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) (models.StoredResource, error)
	ResourceRefs(ctx context.Context, userID, collection string, resource models.SyncResource) ([]models.ResourceRef, error)

	// WriteResource stores content and returns the new ref. A non-empty
	// ifMatch must equal the latest ref.
	WriteResource(ctx context.Context, userID, collection string, resource models.SyncResource, content []byte, ifMatch string) (string, error)
	// DeleteResource deletes one version, or all of them when ref is "".
	DeleteResource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) error
	DeleteResources(ctx context.Context, userID string) error

	CreateCollection(ctx context.Context, userID string) (string, error)
	Collections(ctx context.Context, userID string) ([]string, error)
	// DeleteCollection deletes one collection, or all of them when
	// collection is "".
	DeleteCollection(ctx context.Context, userID, collection string) error
}

// RemoteStoreServiceWrapper decorates a RemoteStoreService, e.g. with
// validation.
type RemoteStoreServiceWrapper interface {
	Wrap(RemoteStoreService) RemoteStoreService
}

type AuthService interface {
	CreateToken(ctx context.Context, userID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
