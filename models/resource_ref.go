// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ResourceRef is one stored version of a remote resource.
type ResourceRef struct {
	Ref     string    `json:"ref"`
	Created time.Time `json:"created"`
}

// StoredResource is a resource version as kept by the remote store.
type StoredResource struct {
	Collection string
	Resource   SyncResource
	Ref        string
	Content    []byte
	Created    time.Time
}
