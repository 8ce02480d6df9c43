// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
)

// ClientServices groups the client-side services.
type ClientServices struct {
	Enablement EnablementService
	Sync       UserDataSyncService
	AutoSync   AutoSyncJob
}

// NewClientServices wires the sync engine over the store client and the
// client stores.
func NewClientServices(
	client adapter.StoreClient,
	storages *store.ClientStorages,
	cfg config.ClientSync,
	logger *logger.Logger,
) (*ClientServices, error) {
	enablement, err := NewEnablementService(storages.KeyValue, cfg, logger)
	if err != nil {
		return nil, err
	}

	syncSvc := NewUserDataSyncService(client, storages, enablement, utils.NewUUIDGenerator(), logger)

	return &ClientServices{
		Enablement: enablement,
		Sync:       syncSvc,
		AutoSync:   NewAutoSyncJob(syncSvc, client, enablement, storages.Local, logger),
	}, nil
}
