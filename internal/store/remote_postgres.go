// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	countersTable    = "sync_counters"
	sessionsTable    = "sync_sessions"
	collectionsTable = "collections"
	resourcesTable   = "resources"

	txAttempts = 3
)

// sqlRunner is satisfied by both *sql.DB and *sql.Tx.
type sqlRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// postgresRemoteRepository is the PostgreSQL-backed [RemoteRepository].
// Mutations run in a transaction that first bumps the user's counter row,
// which serializes concurrent writers of one user.
type postgresRemoteRepository struct {
	*DB
	logger *logger.Logger
}

func NewPostgresRemoteRepository(db *DB, logger *logger.Logger) RemoteRepository {
	return &postgresRemoteRepository{
		DB:     db,
		logger: logger,
	}
}

// inTx runs fn in a transaction, running it again on retryable failures.
func (p *postgresRemoteRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = p.runTx(ctx, fn)
		if err == nil {
			return nil
		}

		switch p.errorClassificator.Classify(err) {
		case Retryable:
			logger.FromContext(ctx).Warn().Err(err).Int("attempt", attempt).Msg("retrying transaction")
			continue
		case RefCollision:
			return ErrPreconditionFailed
		}
		return err
	}
	return err
}

func (p *postgresRemoteRepository) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (p *postgresRemoteRepository) exec(ctx context.Context, runner sqlRunner, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := runner.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return res, nil
}

func (p *postgresRemoteRepository) queryRow(ctx context.Context, runner sqlRunner, b sq.Sqlizer, dest ...any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = runner.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return nil
}

// bump increments the user's counter and returns the new value.
func (p *postgresRemoteRepository) bump(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	var value int64
	err := p.queryRow(ctx, tx, p.builder.
		Insert(countersTable).
		Columns("user_id", "value").
		Values(userID, 1).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET value = "+countersTable+".value + 1 RETURNING value"),
		&value)
	if err != nil {
		return 0, fmt.Errorf("bump version: %w", err)
	}
	return value, nil
}

func (p *postgresRemoteRepository) Version(ctx context.Context, userID string) (int64, error) {
	var value int64
	err := p.queryRow(ctx, p.DB, p.builder.
		Select("value").
		From(countersTable).
		Where(sq.Eq{"user_id": userID}),
		&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return value, err
}

func (p *postgresRemoteRepository) Session(ctx context.Context, userID string) (string, error) {
	var session string
	err := p.queryRow(ctx, p.DB, p.builder.
		Select("session").
		From(sessionsTable).
		Where(sq.Eq{"user_id": userID}),
		&session)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return session, err
}

func (p *postgresRemoteRepository) EnsureSession(ctx context.Context, userID, session string) (string, error) {
	var effective string
	err := p.queryRow(ctx, p.DB, p.builder.
		Insert(sessionsTable).
		Columns("user_id", "session").
		Values(userID, session).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET session = "+sessionsTable+".session RETURNING session"),
		&effective)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresRemoteRepository.EnsureSession").Msg("failed to store session")
		return "", err
	}
	return effective, nil
}

func (p *postgresRemoteRepository) LatestRefs(ctx context.Context, userID string) ([]models.StoredResource, error) {
	query, args, err := p.builder.
		Select("collection_id", "resource", "ref", "created_at").
		Options("DISTINCT ON (collection_id, resource)").
		From(resourcesTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("collection_id", "resource", "ref DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "postgresRemoteRepository.LatestRefs").Msg("failed to query latest refs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	out := make([]models.StoredResource, 0, 16)
	for rows.Next() {
		var (
			item models.StoredResource
			ref  int64
		)
		if err = rows.Scan(&item.Collection, &item.Resource, &ref, &item.Created); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		item.Ref = strconv.FormatInt(ref, 10)
		out = append(out, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return out, nil
}

func (p *postgresRemoteRepository) selectResource(userID, collection string, resource models.SyncResource) sq.SelectBuilder {
	return p.builder.
		Select("ref", "content", "created_at").
		From(resourcesTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"collection_id": collection}).
		Where(sq.Eq{"resource": string(resource)})
}

func (p *postgresRemoteRepository) scanResource(ctx context.Context, b sq.Sqlizer, collection string, resource models.SyncResource) (models.StoredResource, error) {
	var (
		ref     int64
		content string
		created time.Time
	)
	if err := p.queryRow(ctx, p.DB, b, &ref, &content, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredResource{}, ErrNotFound
		}
		return models.StoredResource{}, err
	}

	return models.StoredResource{
		Collection: collection,
		Resource:   resource,
		Ref:        strconv.FormatInt(ref, 10),
		Content:    []byte(content),
		Created:    created,
	}, nil
}

func (p *postgresRemoteRepository) LatestResource(ctx context.Context, userID, collection string, resource models.SyncResource) (models.StoredResource, error) {
	return p.scanResource(ctx,
		p.selectResource(userID, collection, resource).OrderBy("ref DESC").Limit(1),
		collection, resource)
}

func (p *postgresRemoteRepository) Resource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) (models.StoredResource, error) {
	refValue, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return models.StoredResource{}, ErrNotFound
	}

	return p.scanResource(ctx,
		p.selectResource(userID, collection, resource).Where(sq.Eq{"ref": refValue}),
		collection, resource)
}

func (p *postgresRemoteRepository) ResourceRefs(ctx context.Context, userID, collection string, resource models.SyncResource) ([]models.ResourceRef, error) {
	query, args, err := p.builder.
		Select("ref", "created_at").
		From(resourcesTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"collection_id": collection}).
		Where(sq.Eq{"resource": string(resource)}).
		OrderBy("ref DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	refs := make([]models.ResourceRef, 0, 8)
	for rows.Next() {
		var (
			ref     int64
			created time.Time
		)
		if err = rows.Scan(&ref, &created); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		refs = append(refs, models.ResourceRef{Ref: strconv.FormatInt(ref, 10), Created: created})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return refs, nil
}

func (p *postgresRemoteRepository) WriteResource(ctx context.Context, userID, collection string, resource models.SyncResource, content []byte, ifMatch string) (string, error) {
	var newRef int64

	err := p.inTx(ctx, func(tx *sql.Tx) error {
		if collection != "" {
			var one int
			err := p.queryRow(ctx, tx, p.builder.
				Select("1").
				From(collectionsTable).
				Where(sq.Eq{"user_id": userID}).
				Where(sq.Eq{"collection_id": collection}),
				&one)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCollectionNotFound
			}
			if err != nil {
				return err
			}
		}

		version, err := p.bump(ctx, tx, userID)
		if err != nil {
			return err
		}

		current := models.InitialRef
		var latest int64
		err = p.queryRow(ctx, tx, p.builder.
			Select("ref").
			From(resourcesTable).
			Where(sq.Eq{"user_id": userID}).
			Where(sq.Eq{"collection_id": collection}).
			Where(sq.Eq{"resource": string(resource)}).
			OrderBy("ref DESC").
			Limit(1),
			&latest)
		switch {
		case err == nil:
			current = strconv.FormatInt(latest, 10)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		if ifMatch != "" && ifMatch != current {
			return ErrPreconditionFailed
		}

		if _, err = p.exec(ctx, tx, p.builder.
			Insert(resourcesTable).
			Columns("user_id", "collection_id", "resource", "ref", "content").
			Values(userID, collection, string(resource), version, string(content))); err != nil {
			return err
		}

		newRef = version
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrPreconditionFailed) && !errors.Is(err, ErrCollectionNotFound) {
			logger.FromContext(ctx).Err(err).
				Str("func", "postgresRemoteRepository.WriteResource").
				Str("resource", string(resource)).
				Str("collection", collection).
				Msg("failed to write resource")
		}
		return "", err
	}

	return strconv.FormatInt(newRef, 10), nil
}

func (p *postgresRemoteRepository) DeleteResource(ctx context.Context, userID, collection string, resource models.SyncResource, ref string) error {
	del := p.builder.
		Delete(resourcesTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"collection_id": collection}).
		Where(sq.Eq{"resource": string(resource)})

	if ref != "" {
		refValue, err := strconv.ParseInt(ref, 10, 64)
		if err != nil {
			return ErrNotFound
		}
		del = del.Where(sq.Eq{"ref": refValue})
	}

	return p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := p.bump(ctx, tx, userID); err != nil {
			return err
		}

		res, err := p.exec(ctx, tx, del)
		if err != nil {
			return err
		}

		if ref != "" {
			if n, _ := res.RowsAffected(); n == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

func (p *postgresRemoteRepository) DeleteResources(ctx context.Context, userID string) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := p.bump(ctx, tx, userID); err != nil {
			return err
		}

		_, err := p.exec(ctx, tx, p.builder.
			Delete(resourcesTable).
			Where(sq.Eq{"user_id": userID}).
			Where(sq.Eq{"collection_id": ""}))
		return err
	})
}

func (p *postgresRemoteRepository) CreateCollection(ctx context.Context, userID, collection string) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := p.bump(ctx, tx, userID); err != nil {
			return err
		}

		_, err := p.exec(ctx, tx, p.builder.
			Insert(collectionsTable).
			Columns("user_id", "collection_id").
			Values(userID, collection).
			Suffix("ON CONFLICT DO NOTHING"))
		return err
	})
}

func (p *postgresRemoteRepository) CollectionExists(ctx context.Context, userID, collection string) (bool, error) {
	var one int
	err := p.queryRow(ctx, p.DB, p.builder.
		Select("1").
		From(collectionsTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"collection_id": collection}),
		&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (p *postgresRemoteRepository) Collections(ctx context.Context, userID string) ([]string, error) {
	query, args, err := p.builder.
		Select("collection_id").
		From(collectionsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("collection_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := p.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0, 4)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return ids, nil
}

func (p *postgresRemoteRepository) DeleteCollection(ctx context.Context, userID, collection string) error {
	resources := p.builder.Delete(resourcesTable).Where(sq.Eq{"user_id": userID})
	collections := p.builder.Delete(collectionsTable).Where(sq.Eq{"user_id": userID})

	if collection == "" {
		resources = resources.Where(sq.NotEq{"collection_id": ""})
	} else {
		resources = resources.Where(sq.Eq{"collection_id": collection})
		collections = collections.Where(sq.Eq{"collection_id": collection})
	}

	return p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := p.bump(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := p.exec(ctx, tx, resources); err != nil {
			return err
		}
		_, err := p.exec(ctx, tx, collections)
		return err
	})
}

func (p *postgresRemoteRepository) Clear(ctx context.Context, userID string) error {
	return p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := p.bump(ctx, tx, userID); err != nil {
			return err
		}

		for _, table := range []string{resourcesTable, collectionsTable, sessionsTable} {
			if _, err := p.exec(ctx, tx, p.builder.Delete(table).Where(sq.Eq{"user_id": userID})); err != nil {
				return err
			}
		}
		return nil
	})
}
