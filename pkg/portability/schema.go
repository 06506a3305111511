package portability

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "routes-v1.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ErrInvalidDocument is returned when a document does not match the route document schema.
var ErrInvalidDocument = errors.New("invalid route document")

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, strings.Join(e.Problems, "; "))
}

// Unwrap lets errors.Is match ErrInvalidDocument.
func (e *SchemaError) Unwrap() error {
	return ErrInvalidDocument
}

// Schema returns the embedded JSON Schema for route documents.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateValue checks a decoded JSON value against the schema.
func validateValue(v any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	err = s.Validate(v)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	problems := collectProblems(verr, nil)
	sort.Strings(problems)
	return &SchemaError{Problems: problems}
}

// collectProblems flattens the leaves of a validation error tree.
func collectProblems(err *jsonschema.ValidationError, out []string) []string {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return append(out, fmt.Sprintf("%s: %s", loc, err.Message))
	}
	for _, cause := range err.Causes {
		out = collectProblems(cause, out)
	}
	return out
}
