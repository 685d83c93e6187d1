// Package memstore keeps profile data in process memory.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/zjrosen/settingsdef/internal/profile"
)

// Store is a mutex-guarded map of name to encoded bytes.
type Store struct {
	mu    sync.RWMutex
	data  map[string][]byte
	saves int
}

var _ profile.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Load returns a copy of the bytes saved under name.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[name]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return slices.Clone(data), nil
}

// Save stores a copy of data under name.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = slices.Clone(data)
	s.saves++
	return nil
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Saves returns how many successful saves the store has seen.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
