// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DefaultProfileID identifies the profile whose data lives at the store root.
const DefaultProfileID = "__default__profile__"

// Profile is a local user data profile. Non-default profiles keep their data
// under their own directory and sync into a remote collection.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Collection string `json:"collection,omitempty"`
}

// IsDefault reports whether p is the default profile.
func (p Profile) IsDefault() bool {
	return p.ID == DefaultProfileID
}

// DefaultProfile returns the default profile value.
func DefaultProfile() Profile {
	return Profile{ID: DefaultProfileID, Name: "Default"}
}

// SyncProfile is an entry of the synced "profiles" resource.
type SyncProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Collection string `json:"collection"`
}
