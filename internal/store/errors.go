// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by stores and repositories. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by [KeyValueStore.Get] for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrResourceNotFound is returned by [LocalStore.Read] when the local
	// file does not exist.
	ErrResourceNotFound = errors.New("local resource not found")

	// ErrNotFound is returned by [RemoteRepository] methods when the requested
	// resource version does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrCollectionNotFound is returned when a collection-scoped operation
	// targets a collection the user never created or already deleted.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrPreconditionFailed is returned when the If-Match ref supplied with a
	// write does not equal the latest stored ref.
	ErrPreconditionFailed = errors.New("precondition failed: ref mismatch")

	// ErrInvalidPath is returned when a local resource path escapes the store
	// root.
	ErrInvalidPath = errors.New("invalid local resource path")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to executing statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
)
