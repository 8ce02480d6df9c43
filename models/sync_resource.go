// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// SyncResource identifies one kind of synchronized user data.
type SyncResource string

const (
	SyncResourceSettings    SyncResource = "settings"
	SyncResourceKeybindings SyncResource = "keybindings"
	SyncResourceSnippets    SyncResource = "snippets"
	SyncResourceTasks       SyncResource = "tasks"
	SyncResourceGlobalState SyncResource = "globalState"
	SyncResourcePrompts     SyncResource = "prompts"
	SyncResourceProfiles    SyncResource = "profiles"
)

// AllSyncResources lists every resource kind in sync priority order.
var AllSyncResources = []SyncResource{
	SyncResourceSettings,
	SyncResourceKeybindings,
	SyncResourceSnippets,
	SyncResourceTasks,
	SyncResourceGlobalState,
	SyncResourcePrompts,
	SyncResourceProfiles,
}

// ErrUnknownSyncResource is returned by [ParseSyncResource] for names that do
// not belong to the closed set of resource kinds.
var ErrUnknownSyncResource = fmt.Errorf("unknown sync resource")

// ParseSyncResource converts a wire name (as used in /v1/resource/{kind}) to a
// SyncResource.
func ParseSyncResource(s string) (SyncResource, error) {
	r := SyncResource(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSyncResource, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known resource kinds.
func (r SyncResource) Valid() bool {
	switch r {
	case SyncResourceSettings,
		SyncResourceKeybindings,
		SyncResourceSnippets,
		SyncResourceTasks,
		SyncResourceGlobalState,
		SyncResourcePrompts,
		SyncResourceProfiles:
		return true
	}
	return false
}

// Order returns the position of r in the fixed sync order, or -1.
func (r SyncResource) Order() int {
	switch r {
	case SyncResourceSettings:
		return 0
	case SyncResourceKeybindings:
		return 1
	case SyncResourceSnippets:
		return 2
	case SyncResourceTasks:
		return 3
	case SyncResourceGlobalState:
		return 4
	case SyncResourcePrompts:
		return 5
	case SyncResourceProfiles:
		return 6
	}
	return -1
}

func (r SyncResource) String() string {
	return string(r)
}
