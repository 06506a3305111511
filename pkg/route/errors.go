package route

import (
	"errors"
	"fmt"
)

// Kind classifies a route error.
type Kind string

const (
	// KindInvalidOperation means the caller supplied structurally invalid input.
	KindInvalidOperation Kind = "InvalidOperation"
	// KindNotFound means the operation referenced a route that is not stored.
	KindNotFound Kind = "NotFound"
	// KindDecode means a stored record could not be decoded.
	KindDecode Kind = "Decode"
	// KindTooLarge means an encoded record exceeds the backend's size bound.
	KindTooLarge Kind = "TooLarge"
)

// Error is the error type returned by route operations.
type Error struct {
	Kind Kind   `json:"kind"`
	Msg  string `json:"msg"`
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrDecode           = &Error{Kind: KindDecode}
	ErrTooLarge         = &Error{Kind: KindTooLarge}
)

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Is reports whether target is a route error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// InvalidOperation returns a KindInvalidOperation error.
func InvalidOperation(msg string) *Error {
	return &Error{Kind: KindInvalidOperation, Msg: msg}
}

// NotFound returns the KindNotFound error for the named route.
func NotFound(name string) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("Route '%s' not found.", name)}
}

// KindOf returns the kind of err if it is a route error, or "" otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
