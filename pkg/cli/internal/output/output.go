// Package output provides common output formatting utilities.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"unicode"
	"unicode/utf8"

	units "github.com/docker/go-units"
)

// JSON writes indented JSON to w.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table creates an aligned table writer on w.
// Remember to call Flush() when done writing.
func Table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Warn prints a warning message to w.
func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// Bytes renders a payload or body for humans: "-" for nil, "(empty)" for
// zero length, the text itself when it is short printable UTF-8, and its
// size otherwise.
func Bytes(b []byte, max int) string {
	switch {
	case b == nil:
		return "-"
	case len(b) == 0:
		return "(empty)"
	case len(b) <= max && printable(b):
		return string(b)
	default:
		return fmt.Sprintf("<%s>", units.BytesSize(float64(len(b))))
	}
}

func printable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
