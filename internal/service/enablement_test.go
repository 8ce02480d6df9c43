// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-settings-sync/internal/config"
	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnablementService_UnknownDisabledResource(t *testing.T) {
	_, err := NewEnablementService(store.NewMemoryKeyValueStore(), config.ClientSync{DisabledResources: []string{"fonts"}}, logger.Nop())

	assert.ErrorIs(t, err, models.ErrUnknownSyncResource)
}

func TestEnablement_Defaults(t *testing.T) {
	ctx := context.Background()
	e, err := NewEnablementService(store.NewMemoryKeyValueStore(), config.ClientSync{DisabledResources: []string{"snippets"}}, logger.Nop())
	require.NoError(t, err)

	assert.True(t, e.IsEnabled(ctx))
	assert.True(t, e.IsResourceEnabled(ctx, models.SyncResourceSettings))
	assert.False(t, e.IsResourceEnabled(ctx, models.SyncResourceSnippets))
}

func TestEnablement_SetEnablement(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKeyValueStore()
	e, err := NewEnablementService(kv, config.ClientSync{}, logger.Nop())
	require.NoError(t, err)

	var events []bool
	sub := e.OnDidChangeEnablement(func(enabled bool) { events = append(events, enabled) })
	defer sub.Dispose()

	require.NoError(t, e.SetEnablement(ctx, false))
	require.NoError(t, e.SetEnablement(ctx, false))
	assert.False(t, e.IsEnabled(ctx))

	require.NoError(t, e.SetEnablement(ctx, true))
	assert.Equal(t, []bool{false, true}, events, "unchanged values must not fire")

	reopened, err := NewEnablementService(kv, config.ClientSync{}, logger.Nop())
	require.NoError(t, err)
	assert.True(t, reopened.IsEnabled(ctx))
}

func TestEnablement_SetResourceEnablement(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKeyValueStore()
	e, err := NewEnablementService(kv, config.ClientSync{DisabledResources: []string{"prompts"}}, logger.Nop())
	require.NoError(t, err)

	var events []ResourceEnablement
	sub := e.OnDidChangeResourceEnablement(func(r ResourceEnablement) { events = append(events, r) })
	defer sub.Dispose()

	require.NoError(t, e.SetResourceEnablement(ctx, models.SyncResourceKeybindings, false))
	require.NoError(t, e.SetResourceEnablement(ctx, models.SyncResourcePrompts, true))

	assert.False(t, e.IsResourceEnabled(ctx, models.SyncResourceKeybindings))
	assert.True(t, e.IsResourceEnabled(ctx, models.SyncResourcePrompts))
	assert.Equal(t, []ResourceEnablement{
		{Resource: models.SyncResourceKeybindings, Enabled: false},
		{Resource: models.SyncResourcePrompts, Enabled: true},
	}, events)

	assert.ErrorIs(t, e.SetResourceEnablement(ctx, "fonts", false), models.ErrUnknownSyncResource)
}

func TestEnablement_InvalidStoredValueFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKeyValueStore()
	require.NoError(t, kv.Set(ctx, enablementKey, "maybe"))

	e, err := NewEnablementService(kv, config.ClientSync{}, logger.Nop())
	require.NoError(t, err)

	assert.True(t, e.IsEnabled(ctx))
}
