// Package registry implements the route registry: the single owner of the
// route collection and the place its invariants are enforced.
//
// Every mutation (add, edit, delete) holds the registry's write lock for its
// whole duration, so mutations never interleave and readers see either the
// state before a mutation or after it. Reads share the read lock.
//
// The registry is an explicitly owned value. Hosts construct one with New,
// passing the backing medium, and call its methods directly.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getmockd/routestore/pkg/logging"
	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

// Registry stores routes by name on top of a store.Backend.
type Registry struct {
	mu      sync.RWMutex
	backend store.Backend
	log     *slog.Logger
}

// New creates a registry over backend. A nil logger disables logging.
func New(backend store.Backend, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registry{
		backend: backend,
		log:     logger.With("component", "registry"),
	}
}

// AddRoute stores r under its name, replacing any route already stored there.
// A blank name fails with route.ErrInvalidOperation and leaves the store unchanged.
func (g *Registry) AddRoute(ctx context.Context, r route.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.backend.Insert(ctx, r.Clone()); err != nil {
		return fmt.Errorf("add route: %w", err)
	}
	g.log.Info("route added", "route", r.Route)
	return nil
}

// GetRoutes returns a snapshot of every stored route, sorted by name.
// The result is never nil and shares no memory with the registry.
func (g *Registry) GetRoutes(ctx context.Context) ([]route.Route, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	routes, err := g.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get routes: %w", err)
	}
	if routes == nil {
		routes = []route.Route{}
	}
	return routes, nil
}

// GetRoute returns the route stored under name, or route.ErrNotFound.
func (g *Registry) GetRoute(ctx context.Context, name string) (route.Route, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok, err := g.backend.Get(ctx, name)
	if err != nil {
		return route.Route{}, fmt.Errorf("get route: %w", err)
	}
	if !ok {
		return route.Route{}, route.NotFound(name)
	}
	return r, nil
}

// EditRoute replaces the request and expected response of an existing route.
// The name is unchanged. A missing route fails with route.ErrNotFound.
func (g *Registry) EditRoute(ctx context.Context, name string, req route.Request, resp route.Response) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	current, ok, err := g.backend.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("edit route: %w", err)
	}
	if !ok {
		return route.NotFound(name)
	}

	updated := route.Route{Route: current.Route, Request: req, ExpectedResponse: resp}
	if err := updated.Validate(); err != nil {
		return err
	}
	if err := g.backend.Insert(ctx, updated.Clone()); err != nil {
		return fmt.Errorf("edit route: %w", err)
	}
	g.log.Info("route edited", "route", name)
	return nil
}

// DeleteRoute removes the named route. A missing route fails with route.ErrNotFound.
func (g *Registry) DeleteRoute(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed, err := g.backend.Remove(ctx, name)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if !removed {
		return route.NotFound(name)
	}
	g.log.Info("route deleted", "route", name)
	return nil
}

// Count returns the number of stored routes.
func (g *Registry) Count(ctx context.Context) (int, error) {
	routes, err := g.GetRoutes(ctx)
	if err != nil {
		return 0, err
	}
	return len(routes), nil
}

// Compact asks the backend to rewrite its durable form, if it supports it.
// It reports whether the backend compacted.
func (g *Registry) Compact(ctx context.Context) (bool, error) {
	c, ok := g.backend.(store.Compactor)
	if !ok {
		return false, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := c.Compact(ctx); err != nil {
		return false, fmt.Errorf("compact: %w", err)
	}
	g.log.Info("route store compacted")
	return true, nil
}

// Close closes the backing medium.
func (g *Registry) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.Close()
}
