// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-settings-sync/internal/adapter"
	"github.com/MKhiriev/go-settings-sync/internal/client"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).WithFallback()
	fmt.Print(buildInfo)

	log := logger.NewFileLogger("go-settings-sync-client", "")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client storages")
	}
	defer storages.Close()

	storeClient, err := adapter.NewStoreClient(ctx, cfg.Adapter, cfg.App, cfg.Sync,
		storages.KeyValue, adapter.NewStaticCredentials(cfg.App), log,
		adapter.WithClientVersion(buildInfo.BuildVersion()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create store client")
	}
	defer storeClient.Dispose()

	services, err := service.NewClientServices(storeClient, storages, cfg.Sync, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	if err = client.NewApp(services, storeClient, cfg.Workers, log).Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}
