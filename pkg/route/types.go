// Package route provides the Route record stored by the registry: a named
// pairing of a canned request template and the response a mock should return.
package route

import "bytes"

// Request is the request template of a route.
type Request struct {
	// Method is the request method name, e.g. an HTTP verb.
	Method string `json:"method" yaml:"method"`

	// Payload is the encoded request body (usually JSON).
	Payload []byte `json:"payload" yaml:"payload"`
}

// Response is the canned response of a route.
type Response struct {
	// Status is the response status code.
	Status uint64 `json:"status" yaml:"status"`

	// Body is the encoded response body (usually JSON).
	Body []byte `json:"body" yaml:"body"`
}

// Route pairs a request template with its expected response under a unique name.
type Route struct {
	// Route is the route name and the key it is stored under.
	Route string `json:"route" yaml:"route"`

	Request          Request  `json:"request" yaml:"request"`
	ExpectedResponse Response `json:"expected_response" yaml:"expected_response"`
}

// Clone returns a deep copy of the route. Byte slices are copied so the
// result shares no memory with r; nil slices stay nil.
func (r Route) Clone() Route {
	return Route{
		Route: r.Route,
		Request: Request{
			Method:  r.Request.Method,
			Payload: cloneBytes(r.Request.Payload),
		},
		ExpectedResponse: Response{
			Status: r.ExpectedResponse.Status,
			Body:   cloneBytes(r.ExpectedResponse.Body),
		},
	}
}

// Equal reports whether two routes hold the same name, request and response.
// Nil and empty byte slices compare equal.
func (r Route) Equal(o Route) bool {
	return r.Route == o.Route &&
		r.Request.Method == o.Request.Method &&
		bytes.Equal(r.Request.Payload, o.Request.Payload) &&
		r.ExpectedResponse.Status == o.ExpectedResponse.Status &&
		bytes.Equal(r.ExpectedResponse.Body, o.ExpectedResponse.Body)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
