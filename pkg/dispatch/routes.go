package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/getmockd/routestore/pkg/route"
)

// Endpoint names for the route store.
const (
	OpAddRoute    = "add_route"
	OpGetRoutes   = "get_routes"
	OpGetRoute    = "get_route"
	OpEditRoute   = "edit_route"
	OpDeleteRoute = "delete_route"
)

// RouteService is the set of route store operations exposed through the table.
// *registry.Registry implements it.
type RouteService interface {
	AddRoute(ctx context.Context, r route.Route) error
	GetRoutes(ctx context.Context) ([]route.Route, error)
	GetRoute(ctx context.Context, name string) (route.Route, error)
	EditRoute(ctx context.Context, name string, req route.Request, resp route.Response) error
	DeleteRoute(ctx context.Context, name string) error
}

// NameArgs names a single route.
type NameArgs struct {
	Route string `json:"route"`
}

// EditArgs are the arguments of edit_route.
type EditArgs struct {
	Route            string         `json:"route"`
	Request          route.Request  `json:"request"`
	ExpectedResponse route.Response `json:"expected_response"`
}

// RegisterRoutes registers the route store endpoints backed by svc.
func RegisterRoutes(t *Table, svc RouteService) error {
	endpoints := []Endpoint{
		{
			Name:        OpAddRoute,
			Kind:        Update,
			Description: "Store a route, replacing any route with the same name",
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var r route.Route
				if err := decodeArgs(args, &r); err != nil {
					return nil, err
				}
				return nil, svc.AddRoute(ctx, r)
			},
		},
		{
			Name:        OpGetRoutes,
			Kind:        Query,
			Description: "List every stored route",
			Handler: func(ctx context.Context, _ json.RawMessage) (any, error) {
				return svc.GetRoutes(ctx)
			},
		},
		{
			Name:        OpGetRoute,
			Kind:        Query,
			Description: "Fetch one route by name",
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var a NameArgs
				if err := decodeArgs(args, &a); err != nil {
					return nil, err
				}
				return svc.GetRoute(ctx, a.Route)
			},
		},
		{
			Name:        OpEditRoute,
			Kind:        Update,
			Description: "Replace the request and expected response of an existing route",
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var a EditArgs
				if err := decodeArgs(args, &a); err != nil {
					return nil, err
				}
				return nil, svc.EditRoute(ctx, a.Route, a.Request, a.ExpectedResponse)
			},
		},
		{
			Name:        OpDeleteRoute,
			Kind:        Update,
			Description: "Delete a route by name",
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var a NameArgs
				if err := decodeArgs(args, &a); err != nil {
					return nil, err
				}
				return nil, svc.DeleteRoute(ctx, a.Route)
			},
		},
	}

	for _, e := range endpoints {
		if err := t.Register(e); err != nil {
			return err
		}
	}
	return nil
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return fmt.Errorf("%w: arguments are required", ErrBadArguments)
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return nil
}
