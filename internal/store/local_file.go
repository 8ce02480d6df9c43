// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// fileLocalStore keeps user data as plain files under root.
type fileLocalStore struct {
	root   string
	logger *logger.Logger
}

// NewFileLocalStore returns a [LocalStore] rooted at dir. The directory is
// created when missing.
func NewFileLocalStore(dir string, logger *logger.Logger) (LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create user data dir: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve user data dir: %w", err)
	}

	return &fileLocalStore{root: abs, logger: logger}, nil
}

// resolve maps a slash separated relative path to a file under root.
func (s *fileLocalStore) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)[1:]
	if clean == "" {
		return s.root, nil
	}
	local := filepath.FromSlash(clean)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
	}
	return filepath.Join(s.root, local), nil
}

func (s *fileLocalStore) Read(_ context.Context, p string) ([]byte, error) {
	file, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return content, nil
}

// Write replaces the file atomically through a temp file in the same dir.
func (s *fileLocalStore) Write(_ context.Context, p string, content []byte) error {
	file, err := s.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(file)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", p, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(file)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", p, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p, err)
	}

	if err = os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace %s: %w", p, err)
	}
	return nil
}

func (s *fileLocalStore) Delete(_ context.Context, p string) error {
	file, err := s.resolve(p)
	if err != nil {
		return err
	}
	if file == s.root {
		return fmt.Errorf("%w: refusing to delete the store root", ErrInvalidPath)
	}

	if err = os.RemoveAll(file); err != nil {
		return fmt.Errorf("delete %s: %w", p, err)
	}
	return nil
}

func (s *fileLocalStore) List(_ context.Context, dir string) ([]string, error) {
	d, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(d)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Watch follows every directory under root. fsnotify is not recursive, so
// directories created later are added as they appear. Temp files written by
// Write are not reported.
func (s *fileLocalStore) Watch(ctx context.Context, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err = s.addTree(watcher, s.root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if addErr := s.addTree(watcher, event.Name); addErr != nil {
						s.logger.Warn().Err(addErr).Str("dir", event.Name).Msg("failed to watch new directory")
					}
				}
			}

			if rel, ok := s.relative(event.Name); ok && event.Op != fsnotify.Chmod {
				onChange(rel)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(watchErr).Msg("user data watcher error")
		}
	}
}

func (s *fileLocalStore) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err = watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
		}
		return nil
	})
}

func (s *fileLocalStore) relative(file string) (string, bool) {
	rel, err := filepath.Rel(s.root, file)
	if err != nil || !filepath.IsLocal(rel) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
