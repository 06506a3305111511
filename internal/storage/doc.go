// Package storage provides the in-memory route backend and the factory that
// selects a backend from configuration.
//
// Key types:
//
//   - InMemoryRouteStore: Thread-safe in-memory implementation of store.Backend
//   - ReadOnlyStore: Wrapper that rejects writes to an underlying backend
//
// Open picks the concrete backend named by store.Config.Backend. The memory
// backend is the default; the file and postgres backends live in
// pkg/store/file and pkg/store/postgres.
//
// Every backend stores routes in encoded form, so the per-record size bound
// applies uniformly and callers never share memory with stored routes.
package storage
