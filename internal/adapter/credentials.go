// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"strings"
	"sync"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/models"
)

// StaticCredentials is a [CredentialProvider] over a token known up front,
// typically taken from configuration. SetToken replaces it at runtime.
type StaticCredentials struct {
	mu    sync.RWMutex
	token models.AuthToken
}

// NewStaticCredentials returns a provider for the configured token and
// account type.
func NewStaticCredentials(cfg config.ClientApp) *StaticCredentials {
	c := &StaticCredentials{}
	c.SetToken(cfg.AuthToken, cfg.AccountType)
	return c
}

func (c *StaticCredentials) Token(_ context.Context) (models.AuthToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token.Token == "" {
		return models.AuthToken{}, false
	}
	return c.token, true
}

// SetToken stores token; an empty token makes the provider report none.
func (c *StaticCredentials) SetToken(token, accountType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = models.AuthToken{Token: strings.TrimSpace(token), AccountType: accountType}
}
