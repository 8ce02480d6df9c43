// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT bearer token presented to the remote store.
//
// It embeds [jwt.Token] for signing and parsing and [jwt.RegisteredClaims] so
// the token can be passed directly to [jwt.ParseWithClaims].
//
// UserID is the "sub" claim. The remote store partitions all data by it.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	SignedString string `json:"-"`

	UserID string `json:"-"`
}

// GetUserID returns the subject claim of the token.
func (t *Token) GetUserID() (string, error) {
	userID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if userID == "" {
		return "", errors.New("empty subject")
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}

// AuthToken is what a credential provider hands to the store client.
type AuthToken struct {
	Token       string
	AccountType string
}
