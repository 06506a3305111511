package route

import (
	"strings"
	"unicode/utf8"
)

// Validate checks that the route can be stored: the name must contain
// something other than whitespace and the request must name a method.
// Both must be valid UTF-8 so the stored record decodes to the same name.
func (r Route) Validate() error {
	if strings.TrimSpace(r.Route) == "" {
		return InvalidOperation("Route name cannot be empty.")
	}
	if !utf8.ValidString(r.Route) {
		return InvalidOperation("Route name must be valid UTF-8.")
	}
	if strings.TrimSpace(r.Request.Method) == "" {
		return InvalidOperation("Request method cannot be empty.")
	}
	if !utf8.ValidString(r.Request.Method) {
		return InvalidOperation("Request method must be valid UTF-8.")
	}
	return nil
}
