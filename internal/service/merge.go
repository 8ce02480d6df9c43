// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/models"
)

// objectMerger merges JSON objects key by key. A key changed differently on
// both sides is a conflict and keeps the local value.
type objectMerger struct{}

func (objectMerger) Merge(base, local, remote []byte) ([]byte, bool, error) {
	localObj, err := decodeObject(local)
	if err != nil {
		return nil, false, app.NewSyncError(app.CodeLocalInvalidContent, err.Error())
	}
	remoteObj, err := decodeObject(remote)
	if err != nil {
		return nil, false, app.NewSyncError(app.CodeIncompatibleRemoteContent, err.Error())
	}
	baseObj, err := decodeObject(base)
	if err != nil {
		baseObj = map[string]json.RawMessage{}
	}

	keys := make(map[string]struct{}, len(localObj)+len(remoteObj))
	for k := range localObj {
		keys[k] = struct{}{}
	}
	for k := range remoteObj {
		keys[k] = struct{}{}
	}
	for k := range baseObj {
		keys[k] = struct{}{}
	}

	merged := make(map[string]json.RawMessage, len(keys))
	conflict := false
	for k := range keys {
		b, inBase := baseObj[k]
		l, inLocal := localObj[k]
		r, inRemote := remoteObj[k]

		localChanged := inLocal != inBase || (inLocal && !jsonEqual(l, b))
		remoteChanged := inRemote != inBase || (inRemote && !jsonEqual(r, b))

		takeLocal := true
		switch {
		case !localChanged:
			takeLocal = false
		case !remoteChanged:
		case inLocal == inRemote && (!inLocal || jsonEqual(l, r)):
		default:
			conflict = true
		}

		if takeLocal {
			if inLocal {
				merged[k] = l
			}
		} else if inRemote {
			merged[k] = r
		}
	}

	out, err := json.MarshalIndent(merged, "", "\t")
	if err != nil {
		return nil, false, fmt.Errorf("encode merged object: %w", err)
	}
	return preferOriginal(out, local, remote), conflict, nil
}

// documentMerger treats the whole JSON document as one value.
type documentMerger struct{}

func (documentMerger) Merge(base, local, remote []byte) ([]byte, bool, error) {
	if err := validateArray(local); err != nil {
		return nil, false, err
	}

	switch {
	case jsonEqual(local, remote):
		return local, false, nil
	case jsonEqual(local, base):
		return remote, false, nil
	case jsonEqual(remote, base):
		return local, false, nil
	}
	return local, true, nil
}

// profilesMerger merges profile lists by id. It never reports a conflict:
// a profile changed on both sides keeps the local version.
type profilesMerger struct{}

func (profilesMerger) Merge(base, local, remote []byte) ([]byte, bool, error) {
	var localProfiles, remoteProfiles, baseProfiles []models.SyncProfile
	if err := decodeList(local, &localProfiles); err != nil {
		return nil, false, app.NewSyncError(app.CodeLocalInvalidContent, err.Error())
	}
	if err := decodeList(remote, &remoteProfiles); err != nil {
		return nil, false, app.NewSyncError(app.CodeIncompatibleRemoteContent, err.Error())
	}
	if err := decodeList(base, &baseProfiles); err != nil {
		baseProfiles = nil
	}

	baseByID := indexProfiles(baseProfiles)
	localByID := indexProfiles(localProfiles)
	remoteByID := indexProfiles(remoteProfiles)

	merged := make([]models.SyncProfile, 0, len(localProfiles)+len(remoteProfiles))
	for _, p := range localProfiles {
		b, inBase := baseByID[p.ID]
		_, inRemote := remoteByID[p.ID]
		if inBase && !inRemote && p == b {
			// deleted remotely, untouched locally
			continue
		}
		merged = append(merged, p)
	}
	for _, p := range remoteProfiles {
		if _, inLocal := localByID[p.ID]; inLocal {
			continue
		}
		if _, inBase := baseByID[p.ID]; inBase {
			// deleted locally
			continue
		}
		merged = append(merged, p)
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, false, fmt.Errorf("encode merged profiles: %w", err)
	}
	return preferOriginal(out, local, remote), false, nil
}

func indexProfiles(profiles []models.SyncProfile) map[string]models.SyncProfile {
	idx := make(map[string]models.SyncProfile, len(profiles))
	for _, p := range profiles {
		idx[p.ID] = p
	}
	return idx
}

// preferOriginal returns local or remote when merged is semantically equal to
// one of them, so unchanged sides are not rewritten.
func preferOriginal(merged, local, remote []byte) []byte {
	if jsonEqual(merged, local) {
		return local
	}
	if jsonEqual(merged, remote) {
		return remote
	}
	return merged
}

func decodeObject(content []byte) (map[string]json.RawMessage, error) {
	obj := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(content)) == 0 {
		return obj, nil
	}
	if err := json.Unmarshal(content, &obj); err != nil {
		return nil, fmt.Errorf("content is not a JSON object: %w", err)
	}
	if obj == nil {
		// literal null
		return nil, fmt.Errorf("content is not a JSON object")
	}
	return obj, nil
}

func decodeList[T any](content []byte, out *[]T) error {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("content is not a JSON array: %w", err)
	}
	return nil
}

func validateObject(content []byte) error {
	if _, err := decodeObject(content); err != nil {
		return app.NewSyncError(app.CodeLocalInvalidContent, err.Error())
	}
	return nil
}

func validateArray(content []byte) error {
	var list []json.RawMessage
	if err := decodeList(content, &list); err != nil {
		return app.NewSyncError(app.CodeLocalInvalidContent, err.Error())
	}
	return nil
}

func validateFileSet(content []byte) error {
	obj, err := decodeObject(content)
	if err != nil {
		return app.NewSyncError(app.CodeLocalInvalidContent, err.Error())
	}
	for name, raw := range obj {
		var s string
		if err = json.Unmarshal(raw, &s); err != nil {
			return app.NewSyncError(app.CodeLocalInvalidContent, fmt.Sprintf("file %q: content is not a string", name))
		}
	}
	return nil
}

// jsonEqual compares two contents ignoring insignificant whitespace. nil is
// only equal to nil. Invalid JSON falls back to a byte comparison.
func jsonEqual(a, b []byte) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if bytes.Equal(a, b) {
		return true
	}

	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
