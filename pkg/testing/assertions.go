package testing

import (
	"encoding/json"
	"reflect"
)

// AssertRoute asserts that a route with the given name is stored.
func (s *Store) AssertRoute(name string) {
	s.t.Helper()
	for _, r := range s.Routes() {
		if r.Route == name {
			return
		}
	}
	s.t.Errorf("expected route %q to be stored", name)
}

// AssertNoRoute asserts that no route with the given name is stored.
func (s *Store) AssertNoRoute(name string) {
	s.t.Helper()
	for _, r := range s.Routes() {
		if r.Route == name {
			s.t.Errorf("expected route %q not to be stored", name)
			return
		}
	}
}

// AssertRouteCount asserts the number of stored routes.
func (s *Store) AssertRouteCount(expected int) {
	s.t.Helper()
	if n := len(s.Routes()); n != expected {
		s.t.Errorf("expected %d routes, got %d", expected, n)
	}
}

// AssertJSONBody asserts that the named route's expected response body is
// JSON equal to expected. expected can be a string, []byte, or any value that
// will be JSON encoded.
func (s *Store) AssertJSONBody(name string, expected any) {
	s.t.Helper()

	want, err := normalizeJSON(expected)
	if err != nil {
		s.t.Errorf("failed to parse expected JSON: %v", err)
		return
	}

	var got any
	body := s.Get(name).ExpectedResponse.Body
	if err := json.Unmarshal(body, &got); err != nil {
		s.t.Errorf("route %q body is not JSON: %v\nbody: %s", name, err, body)
		return
	}

	if !reflect.DeepEqual(want, got) {
		wantJSON, _ := json.Marshal(want)
		s.t.Errorf("route %q body mismatch\nexpected: %s\nactual:   %s", name, wantJSON, body)
	}
}

func normalizeJSON(v any) (any, error) {
	var data []byte
	switch x := v.(type) {
	case string:
		data = []byte(x)
	case []byte:
		data = x
	default:
		var err error
		if data, err = json.Marshal(x); err != nil {
			return nil, err
		}
	}
	var out any
	err := json.Unmarshal(data, &out)
	return out, err
}
