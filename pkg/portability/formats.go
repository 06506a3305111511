package portability

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatUnknown Format = ""
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	return f == FormatYAML || f == FormatJSON
}

// ParseFormat parses a format name, ignoring case. "yml" is accepted for YAML.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DetectFormat picks the format from the file extension, falling back to the
// content: a document starting with '{' is JSON, anything else YAML.
func DetectFormat(data []byte, filename string) Format {
	if f := ParseFormat(strings.TrimPrefix(filepath.Ext(filename), ".")); f != FormatUnknown {
		return f
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}
