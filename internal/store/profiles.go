// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-settings-sync/models"
)

const profilesKey = "userDataProfiles"

// kvProfileRegistry stores the non-default profiles as one JSON document.
type kvProfileRegistry struct {
	kv KeyValueStore
}

// NewProfileRegistry returns a [ProfileRegistry] persisted in kv.
func NewProfileRegistry(kv KeyValueStore) ProfileRegistry {
	return &kvProfileRegistry{kv: kv}
}

func (r *kvProfileRegistry) Profiles(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{models.DefaultProfile()}

	raw, err := r.kv.Get(ctx, profilesKey)
	if errors.Is(err, ErrKeyNotFound) {
		return profiles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var stored []models.Profile
	if err = json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	for _, p := range stored {
		if !p.IsDefault() {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (r *kvProfileRegistry) SaveProfiles(ctx context.Context, profiles []models.Profile) error {
	stored := make([]models.Profile, 0, len(profiles))
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if p.IsDefault() || p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		stored = append(stored, p)
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	return r.kv.Set(ctx, profilesKey, string(raw))
}
