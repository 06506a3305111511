// Package store defines the backing medium contract for the route registry.
//
// A Backend holds encoded routes keyed by name. Three backends exist:
//   - memory: a map behind a lock, contents lost on exit
//   - file: JSON-lines write-ahead log plus a compacted snapshot on disk
//   - postgres: a single keyed table in PostgreSQL
//
// Directory defaults follow the XDG Base Directory Specification:
//   - Data: ~/.local/share/routestore/
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/getmockd/routestore/pkg/route"
)

// Common errors
var (
	ErrReadOnly = errors.New("store is read-only")
	ErrClosed   = errors.New("store is closed")
)

// Kind represents a storage backend type.
type Kind string

const (
	// KindMemory keeps routes in process memory only
	KindMemory Kind = "memory"
	// KindFile persists routes to a WAL and snapshot under DataDir
	KindFile Kind = "file"
	// KindPostgres persists routes to a PostgreSQL table
	KindPostgres Kind = "postgres"
)

// Valid reports whether k names a known backend.
func (k Kind) Valid() bool {
	switch k {
	case KindMemory, KindFile, KindPostgres:
		return true
	}
	return false
}

// Config holds store configuration.
type Config struct {
	// Backend specifies the storage backend to use
	Backend Kind `json:"backend" yaml:"backend" toml:"backend"`

	// DataDir is the directory for the file backend.
	// Defaults to XDG_DATA_HOME/routestore or ~/.local/share/routestore
	DataDir string `json:"dataDir,omitempty" yaml:"data_dir,omitempty" toml:"data_dir"`

	// DSN is the PostgreSQL connection string for the postgres backend
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" toml:"dsn"`

	// MaxRecordSize bounds one encoded route, in bytes
	MaxRecordSize int `json:"maxRecordSize,omitempty" yaml:"-" toml:"-"`

	// CompactEvery is the number of WAL appends after which the file
	// backend rewrites its snapshot. Zero disables automatic compaction.
	CompactEvery int `json:"compactEvery,omitempty" yaml:"compact_every,omitempty" toml:"compact_every"`

	// ReadOnly prevents any write operations
	ReadOnly bool `json:"readOnly,omitempty" yaml:"read_only,omitempty" toml:"read_only"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Backend:       KindMemory,
		DataDir:       DefaultDataDir(),
		MaxRecordSize: route.DefaultMaxSize,
		CompactEvery:  1000,
	}
}

// Codec returns the record codec bounded by MaxRecordSize.
func (c Config) Codec() route.Codec {
	return route.Codec{MaxSize: c.MaxRecordSize}
}

// DefaultDataDir returns the default data directory following XDG conventions.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "routestore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".routestore", "data")
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "routestore")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "routestore")
		}
		return filepath.Join(home, "AppData", "Local", "routestore")
	}
	return filepath.Join(home, ".local", "share", "routestore")
}

// Backend is the capability set a backing medium provides to the registry.
// Implementations are safe for concurrent use. Returned routes never share
// memory with the backend.
type Backend interface {
	// Insert stores r under r.Route, replacing any existing record.
	Insert(ctx context.Context, r route.Route) error

	// Get returns the route stored under name.
	Get(ctx context.Context, name string) (route.Route, bool, error)

	// List returns all stored routes sorted by name. Never nil.
	List(ctx context.Context) ([]route.Route, error)

	// Remove deletes the route stored under name and reports whether it existed.
	Remove(ctx context.Context, name string) (bool, error)

	// Contains reports whether a route is stored under name.
	Contains(ctx context.Context, name string) (bool, error)

	// Close releases the backend's resources.
	Close() error
}

// Compactor is implemented by backends that can rewrite their on-disk
// representation into a minimal form.
type Compactor interface {
	Compact(ctx context.Context) error
}
