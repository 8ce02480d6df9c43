// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncStatus is the state of a synchronizer, a profile or the whole service.
type SyncStatus string

const (
	SyncStatusIdle         SyncStatus = "idle"
	SyncStatusSyncing      SyncStatus = "syncing"
	SyncStatusHasConflicts SyncStatus = "hasConflicts"
)

func (s SyncStatus) String() string {
	return string(s)
}
