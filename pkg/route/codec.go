package route

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxSize is the default bound on a single encoded route, in bytes.
const DefaultMaxSize = 1024

// Codec converts routes to and from their stored byte form.
type Codec struct {
	// MaxSize bounds the encoded size of one route. Zero or less disables the check.
	MaxSize int
}

// DefaultCodec returns a codec bounded by DefaultMaxSize.
func DefaultCodec() Codec {
	return Codec{MaxSize: DefaultMaxSize}
}

// Encode returns the stored form of r.
func (c Codec) Encode(r Route) ([]byte, error) {
	// encoding/json rewrites invalid UTF-8, which would change the stored name.
	if !utf8.ValidString(r.Route) || !utf8.ValidString(r.Request.Method) {
		return nil, InvalidOperation(fmt.Sprintf("Route %q has a name or method that is not valid UTF-8.", r.Route))
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode route %q: %w", r.Route, err)
	}
	if c.MaxSize > 0 && len(data) > c.MaxSize {
		return nil, &Error{
			Kind: KindTooLarge,
			Msg:  fmt.Sprintf("Route '%s' encodes to %d bytes, limit is %d.", r.Route, len(data), c.MaxSize),
		}
	}
	return data, nil
}

// Decode parses a stored route. Malformed input yields a KindDecode error.
func (c Codec) Decode(data []byte) (Route, error) {
	var r Route
	if err := json.Unmarshal(data, &r); err != nil {
		return Route{}, &Error{Kind: KindDecode, Msg: fmt.Sprintf("decode route: %v", err)}
	}
	if r.Route == "" {
		return Route{}, &Error{Kind: KindDecode, Msg: "decode route: record has no route name"}
	}
	return r, nil
}
