// Package file provides a durable file-based implementation of store.Backend.
//
// Routes are kept in memory and every mutation is appended to a JSON-lines
// write-ahead log, and fsynced, before it becomes visible. Compact writes a full
// snapshot atomically and truncates the log. Open loads the snapshot and
// replays the log on top of it.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

// File names inside the data directory.
const (
	SnapshotFile = "routes.snapshot.json"
	WALFile      = "routes.wal"
)

// FileStore implements store.Backend using a snapshot file and a WAL.
type FileStore struct {
	cfg     store.Config
	codec   route.Codec
	mu      sync.RWMutex
	records map[string][]byte
	wal     *wal
	open    bool
	log     *slog.Logger
}

// New creates a new FileStore with the given configuration. Call Open before use.
func New(cfg store.Config) *FileStore {
	if cfg.DataDir == "" {
		cfg.DataDir = store.DefaultDataDir()
	}
	return &FileStore{
		cfg:     cfg,
		codec:   cfg.Codec(),
		records: make(map[string][]byte),
		log:     slog.Default(),
	}
}

// SetLogger replaces the store's logger.
func (s *FileStore) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// Open loads the snapshot, replays the WAL and opens the WAL for appends.
func (s *FileStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	// Ensure the data directory exists with secure permissions (0700)
	if !s.cfg.ReadOnly {
		if err := os.MkdirAll(s.cfg.DataDir, 0700); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	records, err := loadSnapshot(s.snapshotPath())
	if err != nil {
		return err
	}
	for name, data := range records {
		if err := s.checkRecord(name, data); err != nil {
			return fmt.Errorf("snapshot entry %q: %w", name, err)
		}
	}

	replayed, err := replayWAL(s.walPath(), func(e walEntry) error {
		switch e.Op {
		case opPut:
			if err := s.checkRecord(e.Route, e.Record); err != nil {
				return err
			}
			records[e.Route] = e.Record
		case opDelete:
			delete(records, e.Route)
		default:
			return &route.Error{Kind: route.KindDecode, Msg: fmt.Sprintf("decode wal: unknown op %q", e.Op)}
		}
		return nil
	}, !s.cfg.ReadOnly, s.log)
	if err != nil {
		return err
	}

	if !s.cfg.ReadOnly {
		w, err := openWAL(s.walPath())
		if err != nil {
			return err
		}
		w.ops = replayed
		s.wal = w
	}

	s.records = records
	s.open = true
	s.log.Debug("file store opened", "dir", s.cfg.DataDir, "routes", len(records), "walOps", replayed)
	return nil
}

// checkRecord decodes a record loaded from disk and verifies it is stored
// under its own name.
func (s *FileStore) checkRecord(key string, data []byte) error {
	r, err := s.codec.Decode(data)
	if err != nil {
		return err
	}
	if r.Route != key {
		return &route.Error{Kind: route.KindDecode, Msg: fmt.Sprintf("decode route: record for %q is stored under %q", r.Route, key)}
	}
	return nil
}

// Close closes the WAL. Safe to call multiple times.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return nil
	}
	s.open = false
	if s.wal == nil {
		return nil
	}
	return s.wal.Close()
}

// Insert stores or replaces a route.
func (s *FileStore) Insert(ctx context.Context, r route.Route) error {
	if s.cfg.ReadOnly {
		return store.ErrReadOnly
	}
	data, err := s.codec.Encode(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return store.ErrClosed
	}
	if err := s.wal.Append(walEntry{Op: opPut, Route: r.Route, Record: data}); err != nil {
		return fmt.Errorf("append wal: %w", err)
	}
	s.records[r.Route] = data
	s.maybeCompactLocked()
	return nil
}

// Get retrieves a route by name.
func (s *FileStore) Get(ctx context.Context, name string) (route.Route, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return route.Route{}, false, store.ErrClosed
	}
	data, ok := s.records[name]
	if !ok {
		return route.Route{}, false, nil
	}
	r, err := s.codec.Decode(data)
	if err != nil {
		return route.Route{}, false, err
	}
	return r, true, nil
}

// List returns all routes sorted by name.
func (s *FileStore) List(ctx context.Context) ([]route.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return nil, store.ErrClosed
	}

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]route.Route, 0, len(names))
	for _, name := range names {
		r, err := s.codec.Decode(s.records[name])
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

// Remove deletes a route by name and reports whether it existed.
func (s *FileStore) Remove(ctx context.Context, name string) (bool, error) {
	if s.cfg.ReadOnly {
		return false, store.ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return false, store.ErrClosed
	}
	if _, ok := s.records[name]; !ok {
		return false, nil
	}
	if err := s.wal.Append(walEntry{Op: opDelete, Route: name}); err != nil {
		return false, fmt.Errorf("append wal: %w", err)
	}
	delete(s.records, name)
	s.maybeCompactLocked()
	return true, nil
}

// Contains reports whether a route is stored under name.
func (s *FileStore) Contains(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return false, store.ErrClosed
	}
	_, ok := s.records[name]
	return ok, nil
}

// Compact writes a snapshot of all routes and truncates the WAL.
// Writers are blocked while the snapshot is written.
func (s *FileStore) Compact(ctx context.Context) error {
	if s.cfg.ReadOnly {
		return store.ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return store.ErrClosed
	}
	return s.compactLocked()
}

func (s *FileStore) compactLocked() error {
	if err := writeSnapshot(s.snapshotPath(), s.records); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := s.wal.Truncate(); err != nil {
		return fmt.Errorf("truncate wal: %w", err)
	}
	return nil
}

// maybeCompactLocked compacts once the WAL has grown past CompactEvery.
// A failed compaction leaves the WAL intact, so the mutation is still durable.
func (s *FileStore) maybeCompactLocked() {
	if s.cfg.CompactEvery <= 0 || s.wal.Ops() < s.cfg.CompactEvery {
		return
	}
	if err := s.compactLocked(); err != nil {
		s.log.Error("failed to compact route store", "error", err)
	}
}

// DataDir returns the data directory path.
func (s *FileStore) DataDir() string {
	return s.cfg.DataDir
}

func (s *FileStore) snapshotPath() string {
	return filepath.Join(s.cfg.DataDir, SnapshotFile)
}

func (s *FileStore) walPath() string {
	return filepath.Join(s.cfg.DataDir, WALFile)
}

var (
	_ store.Backend   = (*FileStore)(nil)
	_ store.Compactor = (*FileStore)(nil)
)
