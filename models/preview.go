// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Change describes what applying a preview does to one side.
type Change int

const (
	ChangeNone Change = iota
	ChangeAdded
	ChangeModified
	ChangeDeleted
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	}
	return "unknown"
}

// ResourcePreviewEntry is the proposed merge outcome for one resource.
//
// Nil content fields mean "absent". PreviewContent is what apply writes to
// both sides; it starts as the merge result and is replaced by Accept.
type ResourcePreviewEntry struct {
	Resource        SyncResource `json:"resource"`
	PreviewResource string       `json:"previewResource"`
	LocalContent    []byte       `json:"localContent,omitempty"`
	RemoteContent   []byte       `json:"remoteContent,omitempty"`
	PreviewContent  []byte       `json:"previewContent,omitempty"`
	LocalChange     Change       `json:"localChange"`
	RemoteChange    Change       `json:"remoteChange"`
	HasConflicts    bool         `json:"hasConflicts"`
	Accepted        bool         `json:"accepted"`
}

// ResourcePreview is the ephemeral result of one sync attempt of a resource.
type ResourcePreview struct {
	ResourcePreviews []ResourcePreviewEntry `json:"resourcePreviews"`
	HasLocalChanged  bool                   `json:"hasLocalChanged"`
	HasRemoteChanged bool                   `json:"hasRemoteChanged"`
}

// HasConflicts reports whether any entry still needs a decision.
func (p *ResourcePreview) HasConflicts() bool {
	if p == nil {
		return false
	}
	for _, e := range p.ResourcePreviews {
		if e.HasConflicts && !e.Accepted {
			return true
		}
	}
	return false
}

// Conflict lists the unresolved preview entries of one resource kind in one
// profile.
type Conflict struct {
	Profile          string                 `json:"profile"`
	SyncResource     SyncResource           `json:"syncResource"`
	PreviewResources []ResourcePreviewEntry `json:"previewResources"`
}
