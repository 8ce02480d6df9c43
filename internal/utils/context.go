// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils holds small helpers shared by the client and the server:
// typed context keys, UUID generation, JWT handling, HTTP response writing,
// the resty client wrapper and the typed event emitter.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey holds the authenticated user id (JWT subject) on the server.
	UserIDCtxKey = contextKey("userID")

	// ExecutionIDCtxKey holds the id of the sync pass that issued a request.
	// The store client sends it as X-Execution-Id.
	ExecutionIDCtxKey = contextKey("executionID")
)

// GetUserIDFromContext returns the user id stored under UserIDCtxKey.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok && userID != ""
}

// WithExecutionID returns a copy of ctx carrying executionID.
func WithExecutionID(ctx context.Context, executionID string) context.Context {
	return context.WithValue(ctx, ExecutionIDCtxKey, executionID)
}

// GetExecutionIDFromContext returns the execution id stored in ctx.
func GetExecutionIDFromContext(ctx context.Context) (string, bool) {
	executionID, ok := ctx.Value(ExecutionIDCtxKey).(string)
	return executionID, ok && executionID != ""
}
