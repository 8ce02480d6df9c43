// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryLocalStore is an in-memory [LocalStore]. Watchers are notified
// synchronously on every Write and Delete.
type MemoryLocalStore struct {
	mu       sync.RWMutex
	files    map[string][]byte
	watchers map[int]func(string)
	nextID   int
}

func NewMemoryLocalStore() *MemoryLocalStore {
	return &MemoryLocalStore{
		files:    make(map[string][]byte),
		watchers: make(map[int]func(string)),
	}
}

func cleanLocalPath(p string) string {
	return path.Clean("/" + p)[1:]
}

func (s *MemoryLocalStore) Read(_ context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[cleanLocalPath(p)]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return append([]byte(nil), content...), nil
}

func (s *MemoryLocalStore) Write(_ context.Context, p string, content []byte) error {
	p = cleanLocalPath(p)

	s.mu.Lock()
	s.files[p] = append([]byte(nil), content...)
	s.mu.Unlock()

	s.notify(p)
	return nil
}

func (s *MemoryLocalStore) Delete(_ context.Context, p string) error {
	p = cleanLocalPath(p)

	s.mu.Lock()
	removed := make([]string, 0, 1)
	for name := range s.files {
		if name == p || strings.HasPrefix(name, p+"/") {
			delete(s.files, name)
			removed = append(removed, name)
		}
	}
	s.mu.Unlock()

	for _, name := range removed {
		s.notify(name)
	}
	return nil
}

func (s *MemoryLocalStore) List(_ context.Context, dir string) ([]string, error) {
	dir = cleanLocalPath(dir)

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0)
	for name := range s.files {
		if path.Dir(name) == dir || (dir == "" && !strings.Contains(name, "/")) {
			names = append(names, path.Base(name))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryLocalStore) Watch(ctx context.Context, onChange func(path string)) error {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = onChange
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	delete(s.watchers, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryLocalStore) notify(p string) {
	s.mu.RLock()
	fns := make([]func(string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(p)
	}
}
