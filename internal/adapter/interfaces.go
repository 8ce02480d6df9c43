// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote store protocol.
//
// The primary abstraction is [StoreClient], which translates synchronizer
// intents into authenticated requests against the /v1 HTTP API and maps the
// store's status codes to [app.SyncError] values. Requests pass through a
// [RequestThrottler] that enforces the local request budget before anything
// reaches the network.
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_client_mock.go -package=mock

// StoreClient talks to the remote user data store. It holds no merge logic.
//
// Every failure is returned as an [*app.SyncError]. Conflict and
// PreconditionFailed are never retried internally.
type StoreClient interface {
	// Manifest fetches the latest refs. When old is not nil its ref is sent as
	// If-None-Match and a 304 returns old unchanged. A nil manifest means the
	// store holds no data for the user.
	Manifest(ctx context.Context, old *models.Manifest) (*models.Manifest, error)

	// ReadResource fetches the latest version of resource. A 304 returns old;
	// an absent resource is returned with a nil Content.
	ReadResource(ctx context.Context, resource models.SyncResource, old *models.UserData, collection string) (models.UserData, error)

	// WriteResource stores content and returns the new ref. A non-empty ref is
	// sent as If-Match.
	WriteResource(ctx context.Context, resource models.SyncResource, content []byte, ref, collection string) (string, error)

	// DeleteResource deletes one version of resource, or all of them when ref
	// is empty.
	DeleteResource(ctx context.Context, resource models.SyncResource, ref, collection string) error

	// DeleteResources deletes every root resource of the user.
	DeleteResources(ctx context.Context) error

	// ListResourceRefs lists the stored versions of resource, newest first.
	ListResourceRefs(ctx context.Context, resource models.SyncResource, collection string) ([]models.ResourceRef, error)

	// ResolveResourceContent returns the content of one stored version.
	ResolveResourceContent(ctx context.Context, resource models.SyncResource, ref, collection string) ([]byte, error)

	CreateCollection(ctx context.Context) (string, error)
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection deletes one collection, or all of them when collection
	// is empty.
	DeleteCollection(ctx context.Context, collection string) error

	// Clear deletes all collections and resources and forgets the cached
	// session.
	Clear(ctx context.Context) error

	// DonotMakeRequestsUntil returns the Retry-After deadline, zero when none
	// is armed.
	DonotMakeRequestsUntil() time.Time

	OnTokenFailed(fn func(app.ErrorCode)) utils.Disposable
	OnTokenSucceed(fn func(struct{})) utils.Disposable
	OnDidChangeDonotMakeRequestsUntil(fn func(time.Time)) utils.Disposable
	// OnSessionChanged fires when the manifest reveals that the remote store
	// was reset or replaced.
	OnSessionChanged(fn func(SessionChange)) utils.Disposable

	// Dispose stops the deadline timer and releases all subscriptions.
	Dispose()
}

// CredentialProvider hands out the bearer token used for store requests.
type CredentialProvider interface {
	// Token returns false when no token is available.
	Token(ctx context.Context) (models.AuthToken, bool)
}

// SessionChange is the payload of [StoreClient.OnSessionChanged]. Current is
// empty when the store no longer holds any session.
type SessionChange struct {
	Previous string
	Current  string
}
