// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-settings-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRegistry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKeyValueStore()
	r := NewProfileRegistry(kv)

	profiles, err := r.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Profile{models.DefaultProfile()}, profiles)

	require.NoError(t, r.SaveProfiles(ctx, []models.Profile{
		models.DefaultProfile(),
		{ID: "work", Name: "Work"},
		{ID: "work", Name: "Duplicate"},
		{ID: "", Name: "no id"},
		{ID: "home", Name: "Home", Collection: "c1"},
	}))

	profiles, err = r.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Profile{
		models.DefaultProfile(),
		{ID: "work", Name: "Work"},
		{ID: "home", Name: "Home", Collection: "c1"},
	}, profiles)
}

func TestProfileRegistry_Corrupted(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKeyValueStore()
	require.NoError(t, kv.Set(ctx, profilesKey, "not json"))

	_, err := NewProfileRegistry(kv).Profiles(ctx)
	assert.Error(t, err)
}
