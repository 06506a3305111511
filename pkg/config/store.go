package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	units "github.com/docker/go-units"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

// Store environment variables.
const (
	EnvBackend       = "ROUTESTORE_BACKEND"
	EnvDataDir       = "ROUTESTORE_DATA_DIR"
	EnvDSN           = "ROUTESTORE_DSN"
	EnvMaxRecordSize = "ROUTESTORE_MAX_RECORD_SIZE"
	EnvCompactEvery  = "ROUTESTORE_COMPACT_EVERY"
	EnvReadOnly      = "ROUTESTORE_READ_ONLY"
)

// DefaultCompactEvery is the number of WAL appends between file backend snapshots.
const DefaultCompactEvery = 1000

// StoreConfig selects and configures the backing medium.
type StoreConfig struct {
	// Backend is memory, file or postgres.
	Backend string `json:"backend" yaml:"backend" toml:"backend"`

	// DataDir is where the file backend keeps its snapshot and WAL.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`

	// DSN is the PostgreSQL connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" toml:"dsn,omitempty"`

	// MaxRecordSize bounds one encoded route, as a human size ("1024", "1KiB", "4k").
	MaxRecordSize string `json:"max_record_size" yaml:"max_record_size" toml:"max_record_size"`

	// CompactEvery is the WAL length that triggers a snapshot. Negative disables it.
	CompactEvery int `json:"compact_every,omitempty" yaml:"compact_every,omitempty" toml:"compact_every,omitempty"`

	// ReadOnly rejects every mutation.
	ReadOnly bool `json:"read_only,omitempty" yaml:"read_only,omitempty" toml:"read_only,omitempty"`
}

// MaxRecordSizeBytes parses MaxRecordSize. Binary multiples are used, so "1k" is 1024.
func (c *StoreConfig) MaxRecordSizeBytes() (int, error) {
	n, err := units.RAMInBytes(c.MaxRecordSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_record_size %q: %w", c.MaxRecordSize, err)
	}
	return int(n), nil
}

// StoreConfig converts the finalized configuration into a store.Config.
func (c *StoreConfig) StoreConfig() (store.Config, error) {
	size, err := c.MaxRecordSizeBytes()
	if err != nil {
		return store.Config{}, err
	}
	compact := c.CompactEvery
	if compact < 0 {
		compact = 0
	}
	return store.Config{
		Backend:       store.Kind(c.Backend),
		DataDir:       c.DataDir,
		DSN:           c.DSN,
		MaxRecordSize: size,
		CompactEvery:  compact,
		ReadOnly:      c.ReadOnly,
	}, nil
}

// Merge applies values from overlay that differ from zero values.
func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.DataDir != "" {
		c.DataDir = overlay.DataDir
	}
	if overlay.DSN != "" {
		c.DSN = overlay.DSN
	}
	if overlay.MaxRecordSize != "" {
		c.MaxRecordSize = overlay.MaxRecordSize
	}
	if overlay.CompactEvery != 0 {
		c.CompactEvery = overlay.CompactEvery
	}
	if overlay.ReadOnly {
		c.ReadOnly = true
	}
}

func (c *StoreConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = string(store.KindMemory)
	}
	if c.DataDir == "" {
		c.DataDir = store.DefaultDataDir()
	}
	if c.MaxRecordSize == "" {
		c.MaxRecordSize = strconv.Itoa(route.DefaultMaxSize)
	}
	if c.CompactEvery == 0 {
		c.CompactEvery = DefaultCompactEvery
	}
}

func (c *StoreConfig) loadEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		c.DSN = v
	}
	if v := os.Getenv(EnvMaxRecordSize); v != "" {
		c.MaxRecordSize = v
	}
	if v := os.Getenv(EnvCompactEvery); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvCompactEvery, err)
		}
		c.CompactEvery = n
	}
	if v := os.Getenv(EnvReadOnly); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvReadOnly, err)
		}
		c.ReadOnly = b
	}
	return nil
}

func (c *StoreConfig) validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	kind := store.Kind(c.Backend)
	if !kind.Valid() {
		return fmt.Errorf("unknown backend %q (want memory, file or postgres)", c.Backend)
	}

	size, err := c.MaxRecordSizeBytes()
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("max_record_size must be positive, got %s", c.MaxRecordSize)
	}

	switch kind {
	case store.KindFile:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the file backend")
		}
	case store.KindPostgres:
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres backend")
		}
	}
	return nil
}
