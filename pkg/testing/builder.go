package testing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getmockd/routestore/pkg/route"
)

// RouteBuilder builds routes using a fluent API.
type RouteBuilder struct {
	store *Store
	route route.Route
	err   error // First error encountered during building
}

// setError records the first error encountered during building.
func (b *RouteBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *RouteBuilder) Err() error {
	return b.err
}

// WithMethod sets the request method.
func (b *RouteBuilder) WithMethod(method string) *RouteBuilder {
	b.route.Request.Method = method
	return b
}

// WithPayload sets the request payload.
// Strings and byte slices are used as-is; anything else is JSON encoded.
func (b *RouteBuilder) WithPayload(payload any) *RouteBuilder {
	data, err := toBytes(payload)
	if err != nil {
		b.setError(fmt.Errorf("payload: %w", err))
	}
	b.route.Request.Payload = data
	return b
}

// WithStatus sets the expected response status.
func (b *RouteBuilder) WithStatus(status uint64) *RouteBuilder {
	b.route.ExpectedResponse.Status = status
	return b
}

// WithBody sets the expected response body.
// Strings and byte slices are used as-is; anything else is JSON encoded.
func (b *RouteBuilder) WithBody(body any) *RouteBuilder {
	data, err := toBytes(body)
	if err != nil {
		b.setError(fmt.Errorf("body: %w", err))
	}
	b.route.ExpectedResponse.Body = data
	return b
}

// WithJSON sets the expected response body to v encoded as JSON.
func (b *RouteBuilder) WithJSON(v any) *RouteBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.setError(fmt.Errorf("body: %w", err))
	}
	b.route.ExpectedResponse.Body = data
	return b
}

// Build returns the route without storing it.
func (b *RouteBuilder) Build() route.Route {
	return b.route.Clone()
}

// Add stores the route, failing the test on any builder or registry error.
func (b *RouteBuilder) Add() route.Route {
	t := b.store.t
	t.Helper()
	if b.err != nil {
		t.Fatalf("route %q: %v", b.route.Route, b.err)
	}
	if err := b.store.reg.AddRoute(context.Background(), b.route); err != nil {
		t.Fatalf("failed to add route %q: %v", b.route.Route, err)
	}
	return b.Build()
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return append([]byte{}, x...), nil
	default:
		return json.Marshal(x)
	}
}
