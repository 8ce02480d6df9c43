// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteKV(t *testing.T) KeyValueStore {
	t.Helper()

	db, err := NewConnectSQLite(context.Background(), config.ClientDB{DSN: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewSQLiteKeyValueStore(db, logger.Nop())
}

func TestKeyValueStores(t *testing.T) {
	impls := map[string]func(t *testing.T) KeyValueStore{
		"memory": func(*testing.T) KeyValueStore { return NewMemoryKeyValueStore() },
		"sqlite": newSQLiteKV,
	}

	for name, newStore := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newStore(t)

			_, err := kv.Get(ctx, "sync.user-session-id")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, kv.Set(ctx, "sync.user-session-id", "s1"))
			require.NoError(t, kv.Set(ctx, "sync.user-session-id", "s2"))
			v, err := kv.Get(ctx, "sync.user-session-id")
			require.NoError(t, err)
			assert.Equal(t, "s2", v)

			require.NoError(t, kv.Set(ctx, "sync.settings.lastSyncUserData", "{}"))
			require.NoError(t, kv.Set(ctx, "sync.keybindings.lastSyncUserData", "{}"))
			require.NoError(t, kv.Set(ctx, "syncXsettings", "x"))
			require.NoError(t, kv.Set(ctx, "other", "x"))

			keys, err := kv.Keys(ctx, "sync.")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"sync.keybindings.lastSyncUserData",
				"sync.settings.lastSyncUserData",
				"sync.user-session-id",
			}, keys)

			// '_' must not act as a wildcard
			require.NoError(t, kv.Set(ctx, "a_b", "1"))
			require.NoError(t, kv.Set(ctx, "axb", "1"))
			keys, err = kv.Keys(ctx, "a_")
			require.NoError(t, err)
			assert.Equal(t, []string{"a_b"}, keys)

			require.NoError(t, kv.Delete(ctx, "sync.user-session-id"))
			require.NoError(t, kv.Delete(ctx, "never-set"))
			_, err = kv.Get(ctx, "sync.user-session-id")
			assert.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestSQLiteKeyValueStore_QueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db := &DB{DB: conn, builder: sq.StatementBuilder.PlaceholderFormat(sq.Question), logger: logger.Nop()}
	kv := NewSQLiteKeyValueStore(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = ?")).
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, err = kv.Get(context.Background(), "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScanningRow)
	assert.NotErrorIs(t, err, ErrKeyNotFound)

	mock.ExpectExec("INSERT INTO kv_store").WillReturnError(errors.New("readonly database"))
	assert.ErrorIs(t, kv.Set(context.Background(), "k", "v"), ErrExecutingStatement)

	require.NoError(t, mock.ExpectationsWereMet())
}
