// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Manifest is the remote store's snapshot of the latest ref per resource kind,
// both at the root and inside every collection.
//
// Ref is the manifest's own ETag. It is not part of the JSON body.
type Manifest struct {
	Session     string                        `json:"session"`
	Latest      map[SyncResource]string       `json:"latest,omitempty"`
	Collections map[string]CollectionManifest `json:"collections,omitempty"`
	Ref         string                        `json:"-"`
}

// CollectionManifest holds the latest refs of the resources nested in one
// collection.
type CollectionManifest struct {
	Latest map[SyncResource]string `json:"latest,omitempty"`
}

// LatestRef returns the ref of resource inside collection ("" for the root).
// An empty result means the store holds no such resource. Safe on a nil
// manifest.
func (m *Manifest) LatestRef(collection string, resource SyncResource) string {
	if m == nil {
		return ""
	}
	if collection == "" {
		return m.Latest[resource]
	}
	return m.Collections[collection].Latest[resource]
}
