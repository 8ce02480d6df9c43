// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

type remoteStoreService struct {
	repository store.RemoteRepository
	ids        utils.IDGenerator

	logger *logger.Logger
}

// NewRemoteStoreService returns the [RemoteStoreService] over repository.
// ids mints sessions and collection ids.
func NewRemoteStoreService(repository store.RemoteRepository, ids utils.IDGenerator, logger *logger.Logger) RemoteStoreService {
	return &remoteStoreService{
		repository: repository,
		ids:        ids,
		logger:     logger,
	}
}

func (s *remoteStoreService) Manifest(ctx context.Context, userID string) (*models.Manifest, error) {
	version, err := s.repository.Version(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	manifest := &models.Manifest{Ref: strconv.FormatInt(version, 10)}

	session, err := s.repository.Session(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if session == "" {
		return manifest, nil
	}
	manifest.Session = session

	refs, err := s.repository.LatestRefs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read latest refs: %w", err)
	}
	for _, r := range refs {
		if r.Collection == "" {
			if manifest.Latest == nil {
				manifest.Latest = make(map[models.SyncResource]string)
			}
			manifest.Latest[r.Resource] = r.Ref
			continue
		}

		if manifest.Collections == nil {
			manifest.Collections = make(map[string]models.CollectionManifest)
		}
		c := manifest.Collections[r.Collection]
		if c.Latest == nil {
			c.Latest = make(map[models.SyncResource]string)
		}
		c.Latest[r.Resource] = r.Ref
		manifest.Collections[r.Collection] = c
	}

	collections, err := s.repository.Collections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read collections: %w", err)
	}
	for _, id := range collections {
		if manifest.Collections == nil {
			manifest.Collections = make(map[string]models.CollectionManifest)
		}
		if _, ok := manifest.Collections[id]; !ok {
			manifest.Collections[id] = models.CollectionManifest{}
		}
	}

	return manifest, nil
}

func (s *remoteStoreService) LatestResource(ctx context.Context, userID, collection string, resource models.SyncResource) (models.StoredResource, error) {
	if err := s.checkCollection(ctx, userID, collection); err != nil {
		return models.StoredResource{}, err
	}

	stored, err := s.repository.LatestResource(ctx, userID, collection, resource)
	if errors.Is(err, store.ErrNotFound) {
		return models.StoredResource{}, ErrNoContent
	}
	return stored, err
}

func (s *remoteStoreService) Resource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) (models.StoredResource, error) {
	if err := s.checkCollection(ctx, userID, collection); err != nil {
		return models.StoredResource{}, err
	}
	return s.repository.Resource(ctx, userID, collection, resource, ref)
}

func (s *remoteStoreService) ResourceRefs(ctx context.Context, userID, collection string, resource models.SyncResource) ([]models.ResourceRef, error) {
	if err := s.checkCollection(ctx, userID, collection); err != nil {
		return nil, err
	}
	return s.repository.ResourceRefs(ctx, userID, collection, resource)
}

func (s *remoteStoreService) WriteResource(ctx context.Context, userID, collection string, resource models.SyncResource, content []byte, ifMatch string) (string, error) {
	log := logger.FromContext(ctx)

	if err := s.checkCollection(ctx, userID, collection); err != nil {
		return "", err
	}

	ref, err := s.repository.WriteResource(ctx, userID, collection, resource, content, ifMatch)
	if err != nil {
		log.Debug().Err(err).
			Str("collection", collection).
			Str("resource", resource.String()).
			Str("if_match", ifMatch).
			Msg("write rejected")
		return "", err
	}

	// A rejected write must not open a session.
	if _, err = s.repository.EnsureSession(ctx, userID, s.ids.Generate()); err != nil {
		return "", fmt.Errorf("ensure session: %w", err)
	}

	log.Debug().Str("collection", collection).Str("resource", resource.String()).Str("ref", ref).Msg("resource written")
	return ref, nil
}

func (s *remoteStoreService) DeleteResource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) error {
	if err := s.checkCollection(ctx, userID, collection); err != nil {
		return err
	}
	if err := s.repository.DeleteResource(ctx, userID, collection, resource, ref); err != nil {
		return err
	}
	return s.resetSessionIfEmpty(ctx, userID)
}

func (s *remoteStoreService) DeleteResources(ctx context.Context, userID string) error {
	if err := s.repository.DeleteResources(ctx, userID); err != nil {
		return err
	}
	return s.resetSessionIfEmpty(ctx, userID)
}

func (s *remoteStoreService) CreateCollection(ctx context.Context, userID string) (string, error) {
	if _, err := s.repository.EnsureSession(ctx, userID, s.ids.Generate()); err != nil {
		return "", fmt.Errorf("ensure session: %w", err)
	}

	id := s.ids.Generate()
	if err := s.repository.CreateCollection(ctx, userID, id); err != nil {
		return "", err
	}
	logger.FromContext(ctx).Debug().Str("collection", id).Msg("collection created")
	return id, nil
}

func (s *remoteStoreService) Collections(ctx context.Context, userID string) ([]string, error) {
	return s.repository.Collections(ctx, userID)
}

func (s *remoteStoreService) DeleteCollection(ctx context.Context, userID, collection string) error {
	if err := s.checkCollection(ctx, userID, collection); err != nil {
		return err
	}
	if err := s.repository.DeleteCollection(ctx, userID, collection); err != nil {
		return err
	}
	return s.resetSessionIfEmpty(ctx, userID)
}

func (s *remoteStoreService) checkCollection(ctx context.Context, userID, collection string) error {
	if collection == "" {
		return nil
	}
	ok, err := s.repository.CollectionExists(ctx, userID, collection)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrCollectionNotFound
	}
	return nil
}

// resetSessionIfEmpty drops the session once the user holds no data, so
// clients see a new session after a full reset.
func (s *remoteStoreService) resetSessionIfEmpty(ctx context.Context, userID string) error {
	refs, err := s.repository.LatestRefs(ctx, userID)
	if err != nil {
		return err
	}
	collections, err := s.repository.Collections(ctx, userID)
	if err != nil {
		return err
	}
	if len(refs) > 0 || len(collections) > 0 {
		return nil
	}

	logger.FromContext(ctx).Info().Msg("all data deleted, resetting session")
	return s.repository.Clear(ctx, userID)
}
