// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/MKhiriev/go-settings-sync/internal/app"
	"github.com/MKhiriev/go-settings-sync/internal/store"
	"github.com/MKhiriev/go-settings-sync/models"
)

// resourceHandler is the kind-specific part of a resource synchronizer: how
// the local copy is read, written, validated and merged.
type resourceHandler interface {
	// ReadLocal returns nil when nothing exists locally.
	ReadLocal(ctx context.Context) ([]byte, error)
	// WriteLocal replaces the local copy. nil deletes it.
	WriteLocal(ctx context.Context, content []byte) error
	// Empty is the content standing for a locally deleted set, or nil when a
	// missing local copy must not be propagated.
	Empty() []byte
	Validate(content []byte) error
	PreviewResource() string
	Merger() Merger
}

// profileDataPrefix returns the directory of a profile's data inside the
// local store.
func profileDataPrefix(profile models.Profile) string {
	if profile.IsDefault() {
		return ""
	}
	return path.Join("profiles", profile.ID) + "/"
}

func newResourceHandler(resource models.SyncResource, profile models.Profile, local store.LocalStore, registry store.ProfileRegistry) (resourceHandler, error) {
	prefix := profileDataPrefix(profile)

	switch resource {
	case models.SyncResourceSettings:
		return &fileHandler{local: local, path: prefix + "settings.json", merger: objectMerger{}, validate: validateObject}, nil
	case models.SyncResourceKeybindings:
		return &fileHandler{local: local, path: prefix + "keybindings.json", merger: documentMerger{}, validate: validateArray}, nil
	case models.SyncResourceTasks:
		return &fileHandler{local: local, path: prefix + "tasks.json", merger: objectMerger{}, validate: validateObject}, nil
	case models.SyncResourceGlobalState:
		return &fileHandler{local: local, path: prefix + "globalState.json", merger: objectMerger{}, validate: validateObject}, nil
	case models.SyncResourceSnippets:
		return &dirHandler{local: local, dir: prefix + "snippets"}, nil
	case models.SyncResourcePrompts:
		return &dirHandler{local: local, dir: prefix + "prompts"}, nil
	case models.SyncResourceProfiles:
		if profile.IsDefault() {
			return &profilesHandler{registry: registry}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in profile %s", ErrUnknownResource, resource, profile.ID)
}

// profileResources lists the kinds synchronized for profile, in sync order.
func profileResources(profile models.Profile) []models.SyncResource {
	if profile.IsDefault() {
		return models.AllSyncResources
	}
	resources := make([]models.SyncResource, 0, len(models.AllSyncResources)-1)
	for _, r := range models.AllSyncResources {
		if r != models.SyncResourceProfiles {
			resources = append(resources, r)
		}
	}
	return resources
}

func localError(op, p string, err error) error {
	return app.NewSyncError(app.CodeLocalError, fmt.Sprintf("%s %s: %v", op, p, err))
}

// fileHandler keeps a resource in a single JSON file.
type fileHandler struct {
	local    store.LocalStore
	path     string
	merger   Merger
	validate func([]byte) error
}

func (h *fileHandler) ReadLocal(ctx context.Context) ([]byte, error) {
	content, err := h.local.Read(ctx, h.path)
	if errors.Is(err, store.ErrResourceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, localError("read", h.path, err)
	}
	return content, nil
}

func (h *fileHandler) WriteLocal(ctx context.Context, content []byte) error {
	if content == nil {
		if err := h.local.Delete(ctx, h.path); err != nil {
			return localError("delete", h.path, err)
		}
		return nil
	}
	if err := h.local.Write(ctx, h.path, content); err != nil {
		return localError("write", h.path, err)
	}
	return nil
}

func (h *fileHandler) Empty() []byte                 { return nil }
func (h *fileHandler) Validate(content []byte) error { return h.validate(content) }
func (h *fileHandler) PreviewResource() string       { return h.path }
func (h *fileHandler) Merger() Merger                { return h.merger }

// dirHandler keeps a resource as a directory of files. Its content is a
// JSON object mapping file names to file contents.
type dirHandler struct {
	local store.LocalStore
	dir   string
}

func (h *dirHandler) ReadLocal(ctx context.Context) ([]byte, error) {
	names, err := h.local.List(ctx, h.dir)
	if err != nil {
		return nil, localError("list", h.dir, err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	files := make(map[string]string, len(names))
	for _, name := range names {
		p := path.Join(h.dir, name)
		content, err := h.local.Read(ctx, p)
		if errors.Is(err, store.ErrResourceNotFound) {
			continue
		}
		if err != nil {
			return nil, localError("read", p, err)
		}
		files[name] = string(content)
	}

	out, err := json.MarshalIndent(files, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", h.dir, err)
	}
	return out, nil
}

func (h *dirHandler) WriteLocal(ctx context.Context, content []byte) error {
	if content == nil {
		if err := h.local.Delete(ctx, h.dir); err != nil {
			return localError("delete", h.dir, err)
		}
		return nil
	}

	var files map[string]string
	if err := json.Unmarshal(content, &files); err != nil {
		return app.NewSyncError(app.CodeIncompatibleLocalContent, fmt.Sprintf("%s: %v", h.dir, err))
	}

	existing, err := h.local.List(ctx, h.dir)
	if err != nil {
		return localError("list", h.dir, err)
	}
	for _, name := range existing {
		if _, keep := files[name]; keep {
			continue
		}
		p := path.Join(h.dir, name)
		if err = h.local.Delete(ctx, p); err != nil {
			return localError("delete", p, err)
		}
	}

	for name, body := range files {
		if name == "" || path.Base(name) != name {
			return app.NewSyncError(app.CodeIncompatibleLocalContent, fmt.Sprintf("%s: invalid file name %q", h.dir, name))
		}
		p := path.Join(h.dir, name)
		current, err := h.local.Read(ctx, p)
		if err == nil && bytes.Equal(current, []byte(body)) {
			continue
		}
		if err = h.local.Write(ctx, p, []byte(body)); err != nil {
			return localError("write", p, err)
		}
	}
	return nil
}

func (h *dirHandler) Empty() []byte                 { return []byte("{}") }
func (h *dirHandler) Validate(content []byte) error { return validateFileSet(content) }
func (h *dirHandler) PreviewResource() string       { return h.dir }
func (h *dirHandler) Merger() Merger                { return objectMerger{} }

// profilesHandler syncs the list of non-default profiles.
type profilesHandler struct {
	registry store.ProfileRegistry
}

func (h *profilesHandler) ReadLocal(ctx context.Context) ([]byte, error) {
	profiles, err := h.registry.Profiles(ctx)
	if err != nil {
		return nil, localError("read", "profiles", err)
	}

	synced := make([]models.SyncProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.IsDefault() {
			continue
		}
		synced = append(synced, models.SyncProfile{ID: p.ID, Name: p.Name, Collection: p.Collection})
	}
	if len(synced) == 0 {
		return nil, nil
	}
	return json.Marshal(synced)
}

func (h *profilesHandler) WriteLocal(ctx context.Context, content []byte) error {
	var synced []models.SyncProfile
	if content != nil {
		if err := json.Unmarshal(content, &synced); err != nil {
			return app.NewSyncError(app.CodeIncompatibleLocalContent, fmt.Sprintf("profiles: %v", err))
		}
	}

	profiles := make([]models.Profile, 0, len(synced))
	for _, p := range synced {
		profiles = append(profiles, models.Profile{ID: p.ID, Name: p.Name, Collection: p.Collection})
	}
	if err := h.registry.SaveProfiles(ctx, profiles); err != nil {
		return localError("write", "profiles", err)
	}
	return nil
}

func (h *profilesHandler) Empty() []byte                 { return []byte("[]") }
func (h *profilesHandler) Validate(content []byte) error { return validateArray(content) }
func (h *profilesHandler) PreviewResource() string       { return "profiles" }
func (h *profilesHandler) Merger() Merger                { return profilesMerger{} }
