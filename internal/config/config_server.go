// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ServerApp holds token verification settings and upload limits.
type ServerApp struct {
	TokenSignKey    string
	TokenIssuer     string
	TokenDuration   time.Duration
	MaxResourceSize int64
}

// ServerConfig is the remote store view of [StructuredConfig].
type ServerConfig struct {
	App    ServerApp
	Server Server
	// Storage.DB.DSN selects PostgreSQL; an empty DSN keeps data in memory.
	Storage Storage
}

// GetServerConfig builds and validates the remote store configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewServerConfig maps the fields relevant to the remote store.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		App: ServerApp{
			TokenSignKey:    cfg.App.TokenSignKey,
			TokenIssuer:     cfg.App.TokenIssuer,
			TokenDuration:   cfg.App.TokenDuration,
			MaxResourceSize: cfg.App.MaxResourceSize,
		},
		Server:  cfg.Server,
		Storage: cfg.Storage,
	}
}
