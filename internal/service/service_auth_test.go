// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(issuer string, duration time.Duration) AuthService {
	return NewAuthService(config.ServerApp{
		TokenSignKey:  "secret",
		TokenIssuer:   issuer,
		TokenDuration: duration,
	}, logger.Nop())
}

func TestAuthService_CreateAndParse(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthService("settings-sync", time.Hour)

	token, err := a.CreateToken(ctx, "user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := a.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "user-42", parsed.UserID)
}

func TestAuthService_CreateToken_EmptyUser(t *testing.T) {
	_, err := newTestAuthService("settings-sync", time.Hour).CreateToken(context.Background(), "")

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	ctx := context.Background()

	expired, err := newTestAuthService("settings-sync", -time.Minute).CreateToken(ctx, "user-1")
	require.NoError(t, err)
	otherIssuer, err := newTestAuthService("someone-else", time.Hour).CreateToken(ctx, "user-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-jwt"},
		{"empty", ""},
		{"expired", expired.SignedString},
		{"wrong issuer", otherIssuer.SignedString},
	}

	a := newTestAuthService("settings-sync", time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.ParseToken(ctx, tt.token)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
