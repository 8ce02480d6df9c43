// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

const enablementKey = "sync.enable"

func resourceEnablementKey(resource models.SyncResource) string {
	return enablementKey + "." + resource.String()
}

type enablementService struct {
	kv       store.KeyValueStore
	disabled map[models.SyncResource]bool
	logger   *logger.Logger

	onDidChangeEnablement         *utils.Emitter[bool]
	onDidChangeResourceEnablement *utils.Emitter[ResourceEnablement]
}

// NewEnablementService returns an [EnablementService] persisted in kv. Sync
// is enabled until switched off; resource kinds listed in
// cfg.DisabledResources start disabled.
func NewEnablementService(kv store.KeyValueStore, cfg config.ClientSync, logger *logger.Logger) (EnablementService, error) {
	disabled := make(map[models.SyncResource]bool, len(cfg.DisabledResources))
	for _, name := range cfg.DisabledResources {
		resource, err := models.ParseSyncResource(name)
		if err != nil {
			return nil, fmt.Errorf("disabled resources: %w", err)
		}
		disabled[resource] = true
	}

	return &enablementService{
		kv:                            kv,
		disabled:                      disabled,
		logger:                        logger,
		onDidChangeEnablement:         utils.NewEmitter[bool](),
		onDidChangeResourceEnablement: utils.NewEmitter[ResourceEnablement](),
	}, nil
}

func (e *enablementService) IsEnabled(ctx context.Context) bool {
	return e.getBool(ctx, enablementKey, true)
}

func (e *enablementService) SetEnablement(ctx context.Context, enabled bool) error {
	if e.IsEnabled(ctx) == enabled {
		return nil
	}
	if err := e.kv.Set(ctx, enablementKey, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("store enablement: %w", err)
	}
	e.logger.Info().Bool("enabled", enabled).Msg("sync enablement changed")
	e.onDidChangeEnablement.Fire(enabled)
	return nil
}

func (e *enablementService) IsResourceEnabled(ctx context.Context, resource models.SyncResource) bool {
	return e.getBool(ctx, resourceEnablementKey(resource), !e.disabled[resource])
}

func (e *enablementService) SetResourceEnablement(ctx context.Context, resource models.SyncResource, enabled bool) error {
	if !resource.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownSyncResource, resource)
	}
	if e.IsResourceEnabled(ctx, resource) == enabled {
		return nil
	}
	if err := e.kv.Set(ctx, resourceEnablementKey(resource), strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("store enablement of %s: %w", resource, err)
	}
	e.logger.Info().Str("resource", resource.String()).Bool("enabled", enabled).Msg("resource enablement changed")
	e.onDidChangeResourceEnablement.Fire(ResourceEnablement{Resource: resource, Enabled: enabled})
	return nil
}

func (e *enablementService) getBool(ctx context.Context, key string, def bool) bool {
	raw, err := e.kv.Get(ctx, key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return def
	}
	if err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("cannot read enablement, using default")
		return def
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func (e *enablementService) OnDidChangeEnablement(fn func(bool)) utils.Disposable {
	return e.onDidChangeEnablement.Subscribe(fn)
}

func (e *enablementService) OnDidChangeResourceEnablement(fn func(ResourceEnablement)) utils.Disposable {
	return e.onDidChangeResourceEnablement.Subscribe(fn)
}
