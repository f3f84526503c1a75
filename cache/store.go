// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sort"
	"sync"
)

// Store is a concurrency-safe map from entity id to value.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]T

	// onResize, when set, is called with the new length after every
	// Set or Delete that changes it. It runs outside the lock.
	onResize func(int)
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{entries: make(map[string]T)}
}

// Get returns the value stored for id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[id]
	return value, ok
}

// Set stores value under id, replacing any previous value.
func (s *Store[T]) Set(id string, value T) {
	s.mu.Lock()
	before := len(s.entries)
	s.entries[id] = value
	after := len(s.entries)
	s.mu.Unlock()
	if after != before && s.onResize != nil {
		s.onResize(after)
	}
}

// Delete removes id and reports whether it was present.
func (s *Store[T]) Delete(id string) bool {
	s.mu.Lock()
	_, present := s.entries[id]
	delete(s.entries, id)
	after := len(s.entries)
	s.mu.Unlock()
	if present && s.onResize != nil {
		s.onResize(after)
	}
	return present
}

// Has reports whether id is present.
func (s *Store[T]) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of entries.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IDs returns the stored ids in sorted order.
func (s *Store[T]) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Values returns the stored values ordered by id.
func (s *Store[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	values := make([]T, len(ids))
	for index, id := range ids {
		values[index] = s.entries[id]
	}
	return values
}
