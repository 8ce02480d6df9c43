// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-settings-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// KeyValueStore persists small client state: last sync data, session ids,
// the rate-limit deadline, enablement flags and the profile registry.
type KeyValueStore interface {
	// Get returns ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// LocalStore is the user's local copy of the synchronized data. Paths are
// slash separated and relative to the store root.
type LocalStore interface {
	// Read returns ErrResourceNotFound when path does not exist.
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, content []byte) error
	// Delete removes a file or a whole directory. Missing paths are not an error.
	Delete(ctx context.Context, path string) error
	// List returns the names of the regular files directly inside dir.
	List(ctx context.Context, dir string) ([]string, error)
	// Watch calls onChange with the changed path until ctx is done.
	Watch(ctx context.Context, onChange func(path string)) error
}

// ProfileRegistry keeps the list of local profiles. The default profile is
// always present and always first.
type ProfileRegistry interface {
	Profiles(ctx context.Context) ([]models.Profile, error)
	SaveProfiles(ctx context.Context, profiles []models.Profile) error
}
