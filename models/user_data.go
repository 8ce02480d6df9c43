// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// InitialRef is the ref of a resource the store has never held.
const InitialRef = "0"

// SyncDataVersion is the envelope version written by this client.
const SyncDataVersion = 1

// UserData is a raw resource as transferred by the store protocol.
// A nil Content means the store holds nothing for the resource.
type UserData struct {
	Ref     string
	Content []byte
}

// SyncData is the JSON envelope stored remotely for every resource.
type SyncData struct {
	Version   int    `json:"version"`
	MachineID string `json:"machineId,omitempty"`
	Content   string `json:"content"`
}

// RemoteUserData is a remote resource with its envelope decoded.
// A nil SyncData means the resource is absent.
type RemoteUserData struct {
	Ref      string    `json:"ref"`
	SyncData *SyncData `json:"syncData"`
}

// LastSyncUserData is the persisted belief about what the remote held after
// the last successful sync of a resource.
type LastSyncUserData = RemoteUserData

// Content returns the decoded resource content or nil when absent.
func (d *RemoteUserData) Content() []byte {
	if d == nil || d.SyncData == nil {
		return nil
	}
	return []byte(d.SyncData.Content)
}

// InitialUserData returns the value that stands for "nothing stored yet".
func InitialUserData() RemoteUserData {
	return RemoteUserData{Ref: InitialRef}
}
