// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds the identity the client presents to the remote store.
type ClientApp struct {
	// AuthToken is the bearer token; empty means requests fail as Unauthorized.
	AuthToken string
	// AccountType is sent in the X-Account-Type header.
	AccountType string
	// ClientName is sent in the X-Client-Name header.
	ClientName string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the remote store endpoint.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the sqlite file holding last sync data and session state.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// UserDataDir is the root of the synchronized user data files.
	UserDataDir string
}

// ClientSync is the local request budget and the resource kinds to skip.
type ClientSync struct {
	RequestLimit      int
	RequestInterval   time.Duration
	DisabledResources []string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the manifest is polled.
	SyncInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the fields relevant to the client runtime.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			AuthToken:   cfg.App.AuthToken,
			AccountType: cfg.App.AccountType,
			ClientName:  cfg.App.ClientName,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB:          ClientDB{DSN: cfg.Storage.DB.DSN},
			UserDataDir: cfg.Storage.Files.UserDataDir,
		},
		Sync: ClientSync{
			RequestLimit:      cfg.Sync.RequestLimit,
			RequestInterval:   cfg.Sync.RequestInterval,
			DisabledResources: cfg.Sync.DisabledResources,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}
}
