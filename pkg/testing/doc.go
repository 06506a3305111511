// Package testing provides a testing SDK for using routestore in Go tests.
//
// It wraps a route registry in a helper bound to a testing.TB, with a fluent
// builder for routes and assertions that fail the test instead of returning
// errors.
//
// # Basic Usage
//
//	func TestMyFixture(t *testing.T) {
//	    rs := rstesting.New(t)
//
//	    rs.Route("users/get").
//	        WithMethod("GET").
//	        WithStatus(200).
//	        WithJSON(map[string]any{"id": 1}).
//	        Add()
//
//	    rs.AssertRoute("users/get")
//	    rs.AssertJSONBody("users/get", `{"id":1}`)
//	}
//
// New keeps routes in memory. NewFile uses the durable file backend in a
// temporary directory; Reopen closes and reopens it to test persistence.
package testing
