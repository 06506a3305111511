package storage

import (
	"context"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

// ReadOnlyStore wraps a Backend and rejects every mutation with
// store.ErrReadOnly. Reads pass through to the underlying backend.
type ReadOnlyStore struct {
	underlying store.Backend
}

// NewReadOnlyStore creates a new read-only wrapper.
func NewReadOnlyStore(b store.Backend) *ReadOnlyStore {
	return &ReadOnlyStore{underlying: b}
}

// Underlying returns the wrapped backend.
func (r *ReadOnlyStore) Underlying() store.Backend {
	return r.underlying
}

func (r *ReadOnlyStore) Insert(context.Context, route.Route) error {
	return store.ErrReadOnly
}

func (r *ReadOnlyStore) Get(ctx context.Context, name string) (route.Route, bool, error) {
	return r.underlying.Get(ctx, name)
}

func (r *ReadOnlyStore) List(ctx context.Context) ([]route.Route, error) {
	return r.underlying.List(ctx)
}

func (r *ReadOnlyStore) Remove(context.Context, string) (bool, error) {
	return false, store.ErrReadOnly
}

func (r *ReadOnlyStore) Contains(ctx context.Context, name string) (bool, error) {
	return r.underlying.Contains(ctx, name)
}

func (r *ReadOnlyStore) Close() error {
	return r.underlying.Close()
}

var _ store.Backend = (*ReadOnlyStore)(nil)
