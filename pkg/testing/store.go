package testing

import (
	"context"
	"testing"

	"github.com/getmockd/routestore/internal/storage"
	"github.com/getmockd/routestore/pkg/registry"
	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
	"github.com/getmockd/routestore/pkg/store/file"
)

// Store is a route registry bound to a test.
type Store struct {
	t   testing.TB
	reg *registry.Registry
	dir string
}

// New creates an in-memory route store that is closed when the test completes.
func New(t testing.TB) *Store {
	t.Helper()
	s := &Store{t: t, reg: registry.New(storage.NewInMemoryRouteStore(route.DefaultCodec()), nil)}
	t.Cleanup(func() { _ = s.reg.Close() })
	return s
}

// NewFile creates a route store on the file backend in a temporary directory.
func NewFile(t testing.TB) *Store {
	t.Helper()
	s := &Store{t: t, dir: t.TempDir()}
	s.reg = s.openFile()
	t.Cleanup(func() { _ = s.reg.Close() })
	return s
}

func (s *Store) openFile() *registry.Registry {
	s.t.Helper()
	fs := file.New(store.Config{DataDir: s.dir, MaxRecordSize: route.DefaultMaxSize})
	if err := fs.Open(context.Background()); err != nil {
		s.t.Fatalf("failed to open file store: %v", err)
	}
	return registry.New(fs, nil)
}

// Reopen closes a file-backed store and opens it again from disk.
func (s *Store) Reopen() {
	s.t.Helper()
	if s.dir == "" {
		s.t.Fatal("Reopen requires a store created with NewFile")
	}
	if err := s.reg.Close(); err != nil {
		s.t.Fatalf("failed to close store: %v", err)
	}
	s.reg = s.openFile()
}

// Registry returns the underlying registry.
func (s *Store) Registry() *registry.Registry {
	return s.reg
}

// DataDir returns the file backend's directory, or "" for in-memory stores.
func (s *Store) DataDir() string {
	return s.dir
}

// Route starts building a route with the given name.
// Defaults: method GET, status 200, no payload, no body.
func (s *Store) Route(name string) *RouteBuilder {
	return &RouteBuilder{
		store: s,
		route: route.Route{
			Route:            name,
			Request:          route.Request{Method: "GET"},
			ExpectedResponse: route.Response{Status: 200},
		},
	}
}

// Routes returns every stored route, failing the test on error.
func (s *Store) Routes() []route.Route {
	s.t.Helper()
	routes, err := s.reg.GetRoutes(context.Background())
	if err != nil {
		s.t.Fatalf("failed to list routes: %v", err)
	}
	return routes
}

// Get returns the named route, failing the test if it is missing.
func (s *Store) Get(name string) route.Route {
	s.t.Helper()
	r, err := s.reg.GetRoute(context.Background(), name)
	if err != nil {
		s.t.Fatalf("failed to get route %q: %v", name, err)
	}
	return r
}

// Delete removes the named route, failing the test on error.
func (s *Store) Delete(name string) {
	s.t.Helper()
	if err := s.reg.DeleteRoute(context.Background(), name); err != nil {
		s.t.Fatalf("failed to delete route %q: %v", name, err)
	}
}
