package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

// InMemoryRouteStore is a thread-safe in-memory implementation of store.Backend.
type InMemoryRouteStore struct {
	mu      sync.RWMutex
	codec   route.Codec
	records map[string][]byte
	closed  bool
}

// NewInMemoryRouteStore creates a new InMemoryRouteStore bounded by codec.
func NewInMemoryRouteStore(codec route.Codec) *InMemoryRouteStore {
	return &InMemoryRouteStore{
		codec:   codec,
		records: make(map[string][]byte),
	}
}

// Insert stores or replaces a route.
func (s *InMemoryRouteStore) Insert(_ context.Context, r route.Route) error {
	data, err := s.codec.Encode(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	s.records[r.Route] = data
	return nil
}

// Get retrieves a route by name.
func (s *InMemoryRouteStore) Get(_ context.Context, name string) (route.Route, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return route.Route{}, false, store.ErrClosed
	}
	data, ok := s.records[name]
	if !ok {
		return route.Route{}, false, nil
	}
	r, err := s.codec.Decode(data)
	if err != nil {
		return route.Route{}, false, err
	}
	return r, true, nil
}

// List returns all stored routes sorted by name.
func (s *InMemoryRouteStore) List(_ context.Context) ([]route.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]route.Route, 0, len(names))
	for _, name := range names {
		r, err := s.codec.Decode(s.records[name])
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

// Remove deletes a route by name. Returns true if deleted, false if not found.
func (s *InMemoryRouteStore) Remove(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, store.ErrClosed
	}
	if _, exists := s.records[name]; exists {
		delete(s.records, name)
		return true, nil
	}
	return false, nil
}

// Contains checks if a route with the given name exists.
func (s *InMemoryRouteStore) Contains(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, store.ErrClosed
	}
	_, exists := s.records[name]
	return exists, nil
}

// Count returns the number of stored routes.
func (s *InMemoryRouteStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close drops all routes. Later calls return store.ErrClosed.
func (s *InMemoryRouteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

// Ensure InMemoryRouteStore implements store.Backend.
var _ store.Backend = (*InMemoryRouteStore)(nil)
