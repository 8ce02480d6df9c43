// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// sync client and the remote store server. It is populated by merging
// defaults, environment variables, command-line flags and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix - prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       - direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds credentials, token parameters and client identity.
	App App `envPrefix:"APP_"`

	// Storage holds the database and user data directory settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address and timeouts of the remote store.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote store endpoint used by the client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the request budget and resource enablement of the client.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for background jobs.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the location of the user data that gets synchronized.
	Files Files `envPrefix:"FILES_"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim validated on every authenticated request.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of tokens minted by the issue-token command.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// AuthToken is the bearer token the client presents to the remote store.
	// Env: APP_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`

	// AccountType is sent in the X-Account-Type header.
	// Env: APP_ACCOUNT_TYPE
	AccountType string `env:"ACCOUNT_TYPE"`

	// ClientName is sent in the X-Client-Name header.
	// Env: APP_CLIENT_NAME
	ClientName string `env:"CLIENT_NAME"`

	// MaxResourceSize limits the size of a single uploaded resource in bytes.
	// Env: APP_MAX_RESOURCE_SIZE
	MaxResourceSize int64 `env:"MAX_RESOURCE_SIZE"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL connection string on the server and the sqlite
	// file path on the client.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system settings.
type Files struct {
	// UserDataDir is the directory holding settings.json, keybindings.json,
	// snippets/ and the rest of the synchronized user data.
	// Env: STORAGE_FILES_USER_DATA_DIR
	UserDataDir string `env:"USER_DATA_DIR"`
}

// Adapter holds the outbound connection settings of the client.
type Adapter struct {
	// HTTPAddress is the base URL or host:port of the remote store.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the client-side synchronization policy.
type Sync struct {
	// RequestLimit is the number of requests allowed per RequestInterval.
	// Env: SYNC_REQUEST_LIMIT
	RequestLimit int `env:"REQUEST_LIMIT"`

	// RequestInterval is the length of the local request budget window.
	// Env: SYNC_REQUEST_INTERVAL
	RequestInterval time.Duration `env:"REQUEST_INTERVAL"`

	// DisabledResources lists resource kinds excluded from sync,
	// comma separated (e.g. "keybindings,globalState").
	// Env: SYNC_DISABLED_RESOURCES
	DisabledResources []string `env:"DISABLED_RESOURCES" envSeparator:","`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the manifest polling job.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (later sources override non-zero
// fields of earlier ones):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
}
