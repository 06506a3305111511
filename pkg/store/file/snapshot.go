package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getmockd/routestore/pkg/route"
)

// Current snapshot format version
const snapshotVersion = 1

type snapshot struct {
	Version int               `json:"version"`
	Routes  map[string][]byte `json:"routes"`
}

// loadSnapshot returns the records in the snapshot at path, or an empty map
// if there is no snapshot yet.
func loadSnapshot(path string) (map[string][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string][]byte), nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &route.Error{Kind: route.KindDecode, Msg: fmt.Sprintf("decode snapshot: %v", err)}
	}
	if snap.Version != snapshotVersion {
		return nil, &route.Error{Kind: route.KindDecode, Msg: fmt.Sprintf("decode snapshot: unsupported version %d", snap.Version)}
	}
	if snap.Routes == nil {
		snap.Routes = make(map[string][]byte)
	}
	return snap.Routes, nil
}

func writeSnapshot(path string, records map[string][]byte) error {
	data, err := json.Marshal(snapshot{Version: snapshotVersion, Routes: records})
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes to a temp file, syncs it, then renames it over path.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // Clean up temp file on failure
		return err
	}
	return nil
}
