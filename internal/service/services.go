// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
	"github.com/MKhiriev/go-settings-sync/models"
)

// Services groups the services of the remote store server.
type Services struct {
	AuthService        AuthService
	RemoteStoreService RemoteStoreService
	AppInfoService     AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	remote := NewRemoteStoreService(storages.RemoteRepository, utils.NewUUIDGenerator(), logger)

	return &Services{
		AuthService:        NewAuthService(cfg.App, logger),
		RemoteStoreService: NewRemoteStoreValidationService(cfg.App.MaxResourceSize).Wrap(remote),
		AppInfoService:     appInfo,
	}, nil
}
