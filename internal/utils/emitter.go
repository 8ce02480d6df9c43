// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "sync"

// Disposable releases a subscription, timer or any other owned resource.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to Disposable.
type DisposableFunc func()

func (f DisposableFunc) Dispose() {
	f()
}

// Emitter is a typed publish/subscribe channel for one event.
// Listeners run synchronously on the goroutine calling Fire, in
// subscription order.
type Emitter[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
	disposed  bool
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// NewEmitter returns an emitter without listeners.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

// Subscribe registers fn and returns the handle that unregisters it.
// Subscribing to a disposed emitter is a no-op.
func (e *Emitter[T]) Subscribe(fn func(T)) Disposable {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return DisposableFunc(func() {})
	}

	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})

	var once sync.Once
	return DisposableFunc(func() {
		once.Do(func() { e.unsubscribe(id) })
	})
}

func (e *Emitter[T]) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Fire delivers v to a snapshot of the current listeners.
func (e *Emitter[T]) Fire(v T) {
	e.mu.Lock()
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Dispose drops all listeners. Later Subscribe calls do nothing.
func (e *Emitter[T]) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.disposed = true
	e.listeners = nil
}

// DisposableStore groups disposables released together, in reverse order of
// registration.
type DisposableStore struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// Add registers d. Adding to a disposed store disposes d immediately.
func (s *DisposableStore) Add(d Disposable) Disposable {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		d.Dispose()
		return d
	}
	s.items = append(s.items, d)
	s.mu.Unlock()

	return d
}

// Dispose releases everything registered so far.
func (s *DisposableStore) Dispose() {
	s.mu.Lock()
	items := s.items
	s.items = nil
	s.disposed = true
	s.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}
