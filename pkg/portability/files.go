package portability

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/routestore/pkg/route"
)

// RouteAdder stores routes. *registry.Registry implements it.
type RouteAdder interface {
	AddRoute(ctx context.Context, r route.Route) error
}

// ImportResult summarizes an import.
type ImportResult struct {
	Files  []string
	Routes int
}

// ExpandPaths resolves each argument to files. Arguments containing glob
// metacharacters are expanded with doublestar, so "routes/**/*.yaml" walks
// subdirectories. A pattern that matches nothing is an error, as is a plain
// path that does not exist. The result is deduplicated and sorted.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, arg := range args {
		matches := []string{arg}
		if hasMeta(arg) {
			var err error
			matches, err = doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
		} else if _, err := os.Stat(arg); err != nil {
			return nil, fmt.Errorf("route document not found: %s", arg)
		}

		for _, m := range matches {
			m = filepath.Clean(m)
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads and validates the document at path. The format comes from
// the extension, or the content when the extension is unknown.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route document: %w", err)
	}
	doc, err := Decode(data, DetectFormat(data, path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Import reads every document matched by patterns and adds their routes
// through adder. All documents are read and converted before the first route
// is added, so a malformed file adds nothing.
func Import(ctx context.Context, adder RouteAdder, patterns []string) (ImportResult, error) {
	files, err := ExpandPaths(patterns)
	if err != nil {
		return ImportResult{}, err
	}

	var routes []route.Route
	for _, f := range files {
		doc, err := ReadFile(f)
		if err != nil {
			return ImportResult{}, err
		}
		rs, err := doc.ToRoutes()
		if err != nil {
			return ImportResult{}, fmt.Errorf("%s: %w", f, err)
		}
		routes = append(routes, rs...)
	}

	result := ImportResult{Files: files}
	for _, r := range routes {
		if err := adder.AddRoute(ctx, r); err != nil {
			return result, fmt.Errorf("import route %q: %w", r.Route, err)
		}
		result.Routes++
	}
	return result, nil
}

// Export renders routes as a document in the given format.
func Export(routes []route.Route, format Format) ([]byte, error) {
	return NewDocument(routes).Encode(format)
}

// WriteFile exports routes to path, choosing the format from its extension
// unless format is set. The file is replaced atomically.
func WriteFile(path string, routes []route.Route, format Format) error {
	if format == FormatUnknown {
		format = ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
		if format == FormatUnknown {
			format = FormatYAML
		}
	}
	data, err := Export(routes, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".routes-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write route document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close route document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod route document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename route document: %w", err)
	}
	return nil
}

func hasMeta(p string) bool {
	for _, c := range p {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
