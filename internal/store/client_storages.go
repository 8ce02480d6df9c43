// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
)

// ClientStorages groups the client-side stores.
type ClientStorages struct {
	// KeyValue holds last sync data, session ids and other client state.
	KeyValue KeyValueStore
	// Local is the user data directory being synchronized.
	Local LocalStore
	// Profiles lists the local profiles.
	Profiles ProfileRegistry

	db *DB
}

// NewClientStorages opens the sqlite database at cfg.DB.DSN, applies the
// client migrations and roots the local store at cfg.UserDataDir.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	local, err := NewFileLocalStore(cfg.UserDataDir, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	kv := NewSQLiteKeyValueStore(db, logger)

	return &ClientStorages{
		KeyValue: kv,
		Local:    local,
		Profiles: NewProfileRegistry(kv),
		db:       db,
	}, nil
}

// NewMemoryClientStorages returns client stores that live in memory.
func NewMemoryClientStorages() *ClientStorages {
	kv := NewMemoryKeyValueStore()
	return &ClientStorages{
		KeyValue: kv,
		Local:    NewMemoryLocalStore(),
		Profiles: NewProfileRegistry(kv),
	}
}

func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
