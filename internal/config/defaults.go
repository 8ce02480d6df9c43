// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

const (
	DefaultRequestLimit    = 100
	DefaultRequestInterval = 5 * time.Minute
	DefaultSyncInterval    = 5 * time.Minute
	DefaultRequestTimeout  = 30 * time.Second
	DefaultClientName      = "go-settings-sync"
	DefaultTokenIssuer     = "go-settings-sync"
	DefaultTokenDuration   = 24 * time.Hour
	DefaultServerAddress   = "localhost:8080"
	// DefaultMaxResourceSize is 5 MiB.
	DefaultMaxResourceSize = 5 << 20
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:     DefaultTokenIssuer,
			TokenDuration:   DefaultTokenDuration,
			ClientName:      DefaultClientName,
			MaxResourceSize: DefaultMaxResourceSize,
		},
		Server: Server{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
		},
		Sync: Sync{
			RequestLimit:    DefaultRequestLimit,
			RequestInterval: DefaultRequestInterval,
		},
		Workers: Workers{
			SyncInterval: DefaultSyncInterval,
		},
	}
}
