// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-settings-sync/models"
)

type resourceKey struct {
	collection string
	resource   models.SyncResource
}

type memoryUserData struct {
	version     int64
	session     string
	collections map[string]time.Time
	// versions are kept in ascending ref order
	resources map[resourceKey][]models.StoredResource
}

// memoryRemoteRepository is the [RemoteRepository] used when the server runs
// without a database.
type memoryRemoteRepository struct {
	mu    sync.Mutex
	users map[string]*memoryUserData
	now   func() time.Time
}

func NewMemoryRemoteRepository() RemoteRepository {
	return &memoryRemoteRepository{
		users: make(map[string]*memoryUserData),
		now:   time.Now,
	}
}

func (r *memoryRemoteRepository) user(userID string) *memoryUserData {
	u, ok := r.users[userID]
	if !ok {
		u = &memoryUserData{
			collections: make(map[string]time.Time),
			resources:   make(map[resourceKey][]models.StoredResource),
		}
		r.users[userID] = u
	}
	return u
}

func (r *memoryRemoteRepository) Version(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.user(userID).version, nil
}

func (r *memoryRemoteRepository) Session(_ context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.user(userID).session, nil
}

func (r *memoryRemoteRepository) EnsureSession(_ context.Context, userID, session string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	if u.session == "" {
		u.session = session
	}
	return u.session, nil
}

func (r *memoryRemoteRepository) LatestRefs(_ context.Context, userID string) ([]models.StoredResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	out := make([]models.StoredResource, 0, len(u.resources))
	for _, versions := range u.resources {
		latest := versions[len(versions)-1]
		latest.Content = nil
		out = append(out, latest)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Collection != out[j].Collection {
			return out[i].Collection < out[j].Collection
		}
		return out[i].Resource < out[j].Resource
	})
	return out, nil
}

func (r *memoryRemoteRepository) LatestResource(_ context.Context, userID, collection string, resource models.SyncResource) (models.StoredResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	versions := r.user(userID).resources[resourceKey{collection, resource}]
	if len(versions) == 0 {
		return models.StoredResource{}, ErrNotFound
	}
	return copyStored(versions[len(versions)-1]), nil
}

func (r *memoryRemoteRepository) Resource(_ context.Context, userID, collection string, resource models.SyncResource, ref string) (models.StoredResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.user(userID).resources[resourceKey{collection, resource}] {
		if v.Ref == ref {
			return copyStored(v), nil
		}
	}
	return models.StoredResource{}, ErrNotFound
}

func (r *memoryRemoteRepository) ResourceRefs(_ context.Context, userID, collection string, resource models.SyncResource) ([]models.ResourceRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	versions := r.user(userID).resources[resourceKey{collection, resource}]
	refs := make([]models.ResourceRef, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		refs = append(refs, models.ResourceRef{Ref: versions[i].Ref, Created: versions[i].Created})
	}
	return refs, nil
}

func (r *memoryRemoteRepository) WriteResource(_ context.Context, userID, collection string, resource models.SyncResource, content []byte, ifMatch string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	if collection != "" {
		if _, ok := u.collections[collection]; !ok {
			return "", ErrCollectionNotFound
		}
	}

	key := resourceKey{collection, resource}
	versions := u.resources[key]

	current := models.InitialRef
	if len(versions) > 0 {
		current = versions[len(versions)-1].Ref
	}
	if ifMatch != "" && ifMatch != current {
		return "", ErrPreconditionFailed
	}

	u.version++
	stored := models.StoredResource{
		Collection: collection,
		Resource:   resource,
		Ref:        strconv.FormatInt(u.version, 10),
		Content:    append([]byte(nil), content...),
		Created:    r.now().UTC(),
	}
	u.resources[key] = append(versions, stored)

	return stored.Ref, nil
}

func (r *memoryRemoteRepository) DeleteResource(_ context.Context, userID, collection string, resource models.SyncResource, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	key := resourceKey{collection, resource}

	if ref == "" {
		delete(u.resources, key)
		u.version++
		return nil
	}

	versions := u.resources[key]
	for i, v := range versions {
		if v.Ref == ref {
			versions = append(versions[:i:i], versions[i+1:]...)
			if len(versions) == 0 {
				delete(u.resources, key)
			} else {
				u.resources[key] = versions
			}
			u.version++
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRemoteRepository) DeleteResources(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	for key := range u.resources {
		if key.collection == "" {
			delete(u.resources, key)
		}
	}
	u.version++
	return nil
}

func (r *memoryRemoteRepository) CreateCollection(_ context.Context, userID, collection string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	u.collections[collection] = r.now().UTC()
	u.version++
	return nil
}

func (r *memoryRemoteRepository) CollectionExists(_ context.Context, userID, collection string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.user(userID).collections[collection]
	return ok, nil
}

func (r *memoryRemoteRepository) Collections(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	ids := make([]string, 0, len(u.collections))
	for id := range u.collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memoryRemoteRepository) DeleteCollection(_ context.Context, userID, collection string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	for key := range u.resources {
		if key.collection != "" && (collection == "" || key.collection == collection) {
			delete(u.resources, key)
		}
	}

	if collection == "" {
		u.collections = make(map[string]time.Time)
	} else {
		delete(u.collections, collection)
	}
	u.version++
	return nil
}

func (r *memoryRemoteRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.user(userID)
	u.session = ""
	u.collections = make(map[string]time.Time)
	u.resources = make(map[resourceKey][]models.StoredResource)
	u.version++
	return nil
}

func copyStored(s models.StoredResource) models.StoredResource {
	s.Content = append([]byte(nil), s.Content...)
	return s
}
