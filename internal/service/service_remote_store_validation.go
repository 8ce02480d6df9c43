// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-settings-sync/models"
)

// RemoteStoreValidationService rejects malformed requests before they reach
// the wrapped service.
type RemoteStoreValidationService struct {
	inner           RemoteStoreService
	maxResourceSize int64
}

// NewRemoteStoreValidationService limits uploads to maxResourceSize bytes;
// zero means no limit.
func NewRemoteStoreValidationService(maxResourceSize int64) RemoteStoreServiceWrapper {
	return &RemoteStoreValidationService{maxResourceSize: maxResourceSize}
}

func (v *RemoteStoreValidationService) Wrap(inner RemoteStoreService) RemoteStoreService {
	v.inner = inner
	return v
}

func validateRequest(userID string, resource models.SyncResource) error {
	if userID == "" {
		return ErrNoUserID
	}
	if !resource.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, models.ErrUnknownSyncResource)
	}
	return nil
}

func (v *RemoteStoreValidationService) Manifest(ctx context.Context, userID string) (*models.Manifest, error) {
	if userID == "" {
		return nil, ErrNoUserID
	}
	return v.inner.Manifest(ctx, userID)
}

func (v *RemoteStoreValidationService) LatestResource(ctx context.Context, userID, collection string, resource models.SyncResource) (models.StoredResource, error) {
	if err := validateRequest(userID, resource); err != nil {
		return models.StoredResource{}, err
	}
	return v.inner.LatestResource(ctx, userID, collection, resource)
}

func (v *RemoteStoreValidationService) Resource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) (models.StoredResource, error) {
	if err := validateRequest(userID, resource); err != nil {
		return models.StoredResource{}, err
	}
	if ref == "" {
		return models.StoredResource{}, fmt.Errorf("%w: empty ref", ErrInvalidDataProvided)
	}
	return v.inner.Resource(ctx, userID, collection, resource, ref)
}

func (v *RemoteStoreValidationService) ResourceRefs(ctx context.Context, userID, collection string, resource models.SyncResource) ([]models.ResourceRef, error) {
	if err := validateRequest(userID, resource); err != nil {
		return nil, err
	}
	return v.inner.ResourceRefs(ctx, userID, collection, resource)
}

func (v *RemoteStoreValidationService) WriteResource(ctx context.Context, userID, collection string, resource models.SyncResource, content []byte, ifMatch string) (string, error) {
	if err := validateRequest(userID, resource); err != nil {
		return "", err
	}
	if v.maxResourceSize > 0 && int64(len(content)) > v.maxResourceSize {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrResourceTooLarge, len(content), v.maxResourceSize)
	}
	return v.inner.WriteResource(ctx, userID, collection, resource, content, ifMatch)
}

func (v *RemoteStoreValidationService) DeleteResource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) error {
	if err := validateRequest(userID, resource); err != nil {
		return err
	}
	return v.inner.DeleteResource(ctx, userID, collection, resource, ref)
}

func (v *RemoteStoreValidationService) DeleteResources(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNoUserID
	}
	return v.inner.DeleteResources(ctx, userID)
}

func (v *RemoteStoreValidationService) CreateCollection(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrNoUserID
	}
	return v.inner.CreateCollection(ctx, userID)
}

func (v *RemoteStoreValidationService) Collections(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrNoUserID
	}
	return v.inner.Collections(ctx, userID)
}

func (v *RemoteStoreValidationService) DeleteCollection(ctx context.Context, userID, collection string) error {
	if userID == "" {
		return ErrNoUserID
	}
	return v.inner.DeleteCollection(ctx, userID, collection)
}
