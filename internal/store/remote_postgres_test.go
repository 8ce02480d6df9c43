// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgresRepo(t *testing.T) (RemoteRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewPostgresRemoteRepository(newPostgresDB(conn, logger.Nop()), logger.Nop()), mock
}

func expectBump(mock sqlmock.Sqlmock, userID string, value int64) {
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sync_counters (user_id,value) VALUES ($1,$2) ON CONFLICT (user_id) DO UPDATE SET value = sync_counters.value + 1 RETURNING value")).
		WithArgs(userID, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(value))
}

const latestRefQuery = "SELECT ref FROM resources WHERE user_id = $1 AND collection_id = $2 AND resource = $3 ORDER BY ref DESC LIMIT 1"

func TestPostgresRemoteRepository_WriteResource(t *testing.T) {
	tests := []struct {
		name    string
		ifMatch string
		setup   func(mock sqlmock.Sqlmock)
		wantRef string
		wantErr error
	}{
		{
			name:    "first write with If-Match 0",
			ifMatch: models.InitialRef,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				expectBump(mock, "u1", 7)
				mock.ExpectQuery(regexp.QuoteMeta(latestRefQuery)).
					WithArgs("u1", "", "settings").
					WillReturnRows(sqlmock.NewRows([]string{"ref"}))
				mock.ExpectExec("INSERT INTO resources").
					WithArgs("u1", "", "settings", int64(7), `{"a":1}`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantRef: "7",
		},
		{
			name:    "stale If-Match",
			ifMatch: "3",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				expectBump(mock, "u1", 8)
				mock.ExpectQuery(regexp.QuoteMeta(latestRefQuery)).
					WillReturnRows(sqlmock.NewRows([]string{"ref"}).AddRow(int64(5)))
				mock.ExpectRollback()
			},
			wantErr: ErrPreconditionFailed,
		},
		{
			name: "concurrent insert of the same ref",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				expectBump(mock, "u1", 9)
				mock.ExpectQuery(regexp.QuoteMeta(latestRefQuery)).
					WillReturnRows(sqlmock.NewRows([]string{"ref"}).AddRow(int64(5)))
				mock.ExpectExec("INSERT INTO resources").
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
				mock.ExpectRollback()
			},
			wantErr: ErrPreconditionFailed,
		},
		{
			name:    "serialization failure is retried",
			ifMatch: "5",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO sync_counters").
					WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
				mock.ExpectRollback()

				mock.ExpectBegin()
				expectBump(mock, "u1", 10)
				mock.ExpectQuery(regexp.QuoteMeta(latestRefQuery)).
					WillReturnRows(sqlmock.NewRows([]string{"ref"}).AddRow(int64(5)))
				mock.ExpectExec("INSERT INTO resources").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantRef: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestPostgresRepo(t)
			tt.setup(mock)

			ref, err := repo.WriteResource(context.Background(), "u1", "", models.SyncResourceSettings, []byte(`{"a":1}`), tt.ifMatch)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRef, ref)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRemoteRepository_WriteToMissingCollection(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM collections WHERE user_id = $1 AND collection_id = $2")).
		WithArgs("u1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := repo.WriteResource(context.Background(), "u1", "c1", models.SyncResourceSettings, []byte("{}"), "")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemoteRepository_LatestResource(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT ref, content, created_at FROM resources WHERE user_id = $1 AND collection_id = $2 AND resource = $3 ORDER BY ref DESC LIMIT 1")).
		WithArgs("u1", "", "keybindings").
		WillReturnRows(sqlmock.NewRows([]string{"ref", "content", "created_at"}).AddRow(int64(12), "[]", created))

	got, err := repo.LatestResource(context.Background(), "u1", "", models.SyncResourceKeybindings)
	require.NoError(t, err)
	assert.Equal(t, models.StoredResource{
		Resource: models.SyncResourceKeybindings,
		Ref:      "12",
		Content:  []byte("[]"),
		Created:  created,
	}, got)

	mock.ExpectQuery("SELECT ref, content, created_at FROM resources").
		WillReturnRows(sqlmock.NewRows([]string{"ref", "content", "created_at"}))
	_, err = repo.LatestResource(context.Background(), "u1", "", models.SyncResourceKeybindings)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Resource(context.Background(), "u1", "", models.SyncResourceKeybindings, "not-a-number")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemoteRepository_LatestRefs(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT ON (collection_id, resource) collection_id, resource, ref, created_at FROM resources WHERE user_id = $1 ORDER BY collection_id, resource, ref DESC")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"collection_id", "resource", "ref", "created_at"}).
			AddRow("", "settings", int64(3), now).
			AddRow("c1", "tasks", int64(4), now))

	refs, err := repo.LatestRefs(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, models.SyncResourceSettings, refs[0].Resource)
	assert.Equal(t, "3", refs[0].Ref)
	assert.Equal(t, "c1", refs[1].Collection)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemoteRepository_VersionAndSession(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM sync_counters WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	v, err := repo.Version(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, v)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT session FROM sync_sessions WHERE user_id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"session"}))
	s, err := repo.Session(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, s)

	mock.ExpectQuery("INSERT INTO sync_sessions").
		WithArgs("u1", "new").
		WillReturnRows(sqlmock.NewRows([]string{"session"}).AddRow("old"))
	s, err = repo.EnsureSession(ctx, "u1", "new")
	require.NoError(t, err)
	assert.Equal(t, "old", s)

	mock.ExpectQuery("SELECT value FROM sync_counters").
		WillReturnError(errors.New("connection reset"))
	_, err = repo.Version(ctx, "u1")
	assert.ErrorIs(t, err, ErrScanningRow)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemoteRepository_DeleteResourceByRef(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)

	mock.ExpectBegin()
	expectBump(mock, "u1", 20)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM resources WHERE user_id = $1 AND collection_id = $2 AND resource = $3 AND ref = $4")).
		WithArgs("u1", "", "snippets", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteResource(context.Background(), "u1", "", models.SyncResourceSnippets, "4")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemoteRepository_Clear(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)

	mock.ExpectBegin()
	expectBump(mock, "u1", 21)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM resources WHERE user_id = $1")).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections WHERE user_id = $1")).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sync_sessions WHERE user_id = $1")).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Clear(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemoteRepository_DeleteAllCollections(t *testing.T) {
	repo, mock := newTestPostgresRepo(t)

	mock.ExpectBegin()
	expectBump(mock, "u1", 22)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM resources WHERE user_id = $1 AND collection_id <> $2")).
		WithArgs("u1", "").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCollection(context.Background(), "u1", ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassifyPgError(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.Equal(t, NonRetryable, c.Classify(nil))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("plain")))
	assert.Equal(t, Retryable, c.Classify(&pgconn.PgError{Code: pgerrcode.DeadlockDetected}))
	assert.Equal(t, Retryable, c.Classify(&pgconn.PgError{Code: pgerrcode.ConnectionFailure}))
	assert.Equal(t, RefCollision, c.Classify(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.Equal(t, NonRetryable, c.Classify(&pgconn.PgError{Code: pgerrcode.UndefinedTable}))
}
