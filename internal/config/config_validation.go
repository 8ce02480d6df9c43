// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "github.com/MKhiriev/go-settings-sync/models"

// validate checks the settings shared by both binaries.
func (cfg *StructuredConfig) validate() error {
	if cfg.Sync.RequestLimit < 0 || cfg.Sync.RequestInterval < 0 {
		return ErrInvalidSyncConfigs
	}

	for _, r := range cfg.Sync.DisabledResources {
		if _, err := models.ParseSyncResource(r); err != nil {
			return ErrInvalidSyncConfigs
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || cfg.Storage.UserDataDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.RequestLimit <= 0 || cfg.Sync.RequestInterval <= 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.AuthToken == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
