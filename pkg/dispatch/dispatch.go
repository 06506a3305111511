// Package dispatch is the host-side dispatch table for route store operations.
//
// Entry points are registered explicitly by name, each tagged as a query
// (read-only) or an update. Callers invoke them with JSON arguments and get
// JSON results, or a Result envelope with an ok or err member.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/getmockd/routestore/pkg/logging"
	"github.com/getmockd/routestore/pkg/route"
)

// Kind tells whether an endpoint mutates state.
type Kind int

const (
	// Query endpoints only read.
	Query Kind = iota
	// Update endpoints may mutate.
	Update
)

func (k Kind) String() string {
	switch k {
	case Query:
		return "query"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Handler runs one endpoint. args is the raw JSON argument, possibly empty.
// The returned value is marshaled to JSON; nil becomes null.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Endpoint is a named entry point.
type Endpoint struct {
	Name        string
	Kind        Kind
	Description string
	Handler     Handler
}

var (
	// ErrUnknownEndpoint is returned when calling a name that was never registered.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrDuplicateEndpoint is returned when registering a name twice.
	ErrDuplicateEndpoint = errors.New("endpoint already registered")

	// ErrBadArguments is returned when an endpoint's arguments cannot be decoded.
	ErrBadArguments = errors.New("invalid arguments")
)

// Table holds registered endpoints. It is safe for concurrent use.
type Table struct {
	mu        sync.RWMutex
	endpoints map[string]Endpoint
	log       *slog.Logger
}

// NewTable creates an empty table. A nil logger disables logging.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Table{
		endpoints: make(map[string]Endpoint),
		log:       logger.With("component", "dispatch"),
	}
}

// Register adds e to the table.
func (t *Table) Register(e Endpoint) error {
	if e.Name == "" {
		return errors.New("endpoint name is required")
	}
	if e.Handler == nil {
		return fmt.Errorf("endpoint %q: handler is required", e.Name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.endpoints[e.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEndpoint, e.Name)
	}
	t.endpoints[e.Name] = e
	return nil
}

// Lookup returns the endpoint registered under name.
func (t *Table) Lookup(name string) (Endpoint, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.endpoints[name]
	return e, ok
}

// Endpoints returns every registered endpoint sorted by name.
func (t *Table) Endpoints() []Endpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Endpoint, 0, len(t.endpoints))
	for _, e := range t.endpoints {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// maxLogArgs bounds the call arguments copied into a log record.
const maxLogArgs = 1024

// truncateArgs renders call arguments for logging, cut at maxLogArgs bytes.
func truncateArgs(args json.RawMessage) string {
	if len(args) > maxLogArgs {
		return string(args[:maxLogArgs]) + "...(truncated)"
	}
	return string(args)
}

// Call runs the named endpoint and returns its JSON-encoded result.
func (t *Table) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	e, ok := t.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}

	callID := uuid.NewString()
	log := t.log.With("call_id", callID, "op", name)
	log.Debug("dispatch call", "kind", e.Kind.String(), "args", truncateArgs(args))

	v, err := e.Handler(ctx, args)
	if err != nil {
		// Route errors are ordinary outcomes for the caller to handle.
		if route.KindOf(err) != "" {
			log.Debug("dispatch call rejected", "error", err)
		} else {
			log.Warn("dispatch call failed", "error", err)
		}
		return nil, err
	}

	out, err := json.Marshal(v)
	if err != nil {
		log.Warn("dispatch result encoding failed", "error", err)
		return nil, fmt.Errorf("encode %s result: %w", name, err)
	}
	return out, nil
}

// ErrorBody is the err arm of a Result.
type ErrorBody struct {
	Kind string `json:"kind"`
	Msg  string `json:"msg"`
}

// Result is either {"ok": <value>} or {"err": {"kind": ..., "msg": ...}}.
type Result struct {
	Ok  json.RawMessage
	Err *ErrorBody
}

// IsOk reports whether the call succeeded.
func (r Result) IsOk() bool { return r.Err == nil }

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Err *ErrorBody `json:"err"`
		}{r.Err})
	}
	ok := r.Ok
	if len(ok) == 0 {
		ok = json.RawMessage("null")
	}
	return json.Marshal(struct {
		Ok json.RawMessage `json:"ok"`
	}{ok})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ok  json.RawMessage `json:"ok"`
		Err *ErrorBody      `json:"err"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Ok, r.Err = raw.Ok, raw.Err
	return nil
}

// Invoke is like Call but folds any error into the Result.
func (t *Table) Invoke(ctx context.Context, name string, args json.RawMessage) Result {
	out, err := t.Call(ctx, name, args)
	if err != nil {
		return Result{Err: errorBody(err)}
	}
	return Result{Ok: out}
}

func errorBody(err error) *ErrorBody {
	var rerr *route.Error
	if errors.As(err, &rerr) {
		return &ErrorBody{Kind: string(rerr.Kind), Msg: rerr.Msg}
	}
	switch {
	case errors.Is(err, ErrUnknownEndpoint):
		return &ErrorBody{Kind: "UnknownEndpoint", Msg: err.Error()}
	case errors.Is(err, ErrBadArguments):
		return &ErrorBody{Kind: "InvalidArguments", Msg: err.Error()}
	default:
		return &ErrorBody{Kind: "Internal", Msg: err.Error()}
	}
}
