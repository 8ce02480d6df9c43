// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Client-side errors.
var (
	ErrSyncInProgress  = errors.New("a sync task is already running")
	ErrTaskAlreadyRun  = errors.New("sync task can run only once")
	ErrUnknownProfile  = errors.New("unknown profile")
	ErrUnknownResource = errors.New("resource is not synchronized in this profile")
	ErrUnknownPreview  = errors.New("unknown preview resource")
)

// Server-side errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrNoUserID            = errors.New("no user ID in context")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrResourceTooLarge = errors.New("resource content is too large")
	ErrNoContent        = errors.New("no content")
	ErrNotModified      = errors.New("not modified")
)
