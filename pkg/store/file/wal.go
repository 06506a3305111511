package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/getmockd/routestore/pkg/route"
)

// WAL operations.
const (
	opPut    = "put"
	opDelete = "del"
)

// walEntry is one line of the write-ahead log.
type walEntry struct {
	Op     string `json:"op"`
	Route  string `json:"route"`
	Record []byte `json:"record,omitempty"`
}

type wal struct {
	mu    sync.Mutex
	path  string
	f     *os.File
	ops   int
	bytes int64
}

func openWAL(path string) (*wal, error) {
	if path == "" {
		return nil, errors.New("wal path is empty")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open wal: %w", err)
	}
	w := &wal{path: path, f: f}
	if st, err := f.Stat(); err == nil {
		w.bytes = st.Size()
	}
	return w, nil
}

// Append writes e as one line and syncs it to disk.
func (w *wal) Append(e walEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return os.ErrClosed
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if _, err := w.f.Write(b); err != nil {
		return err
	}
	if err := w.f.Sync(); err != nil {
		return err
	}

	w.ops++
	w.bytes += int64(len(b))
	return nil
}

// Truncate empties the log. The current handle stays in use if the log
// cannot be reopened.
func (w *wal) Truncate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("truncate wal: %w", err)
	}
	if w.f != nil {
		_ = w.f.Close()
	}
	w.f = f
	w.ops = 0
	w.bytes = 0
	return w.f.Sync()
}

// Ops returns the number of entries appended since the last truncate.
func (w *wal) Ops() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ops
}

func (w *wal) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// replayWAL feeds every complete entry of the log at path to apply and
// returns how many entries it read. A final line without a trailing newline
// is a torn write: it is dropped, and cut from the file when repair is set.
// Any other malformed line is a decode error.
func replayWAL(path string, apply func(walEntry) error, repair bool, log *slog.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read wal: %w", err)
	}

	var (
		n      int
		offset int
		line   int
	)
	for offset < len(data) {
		line++
		end := bytes.IndexByte(data[offset:], '\n')
		if end < 0 {
			log.Warn("dropping torn wal entry", "path", path, "line", line, "bytes", len(data)-offset)
			if repair {
				if err := os.Truncate(path, int64(offset)); err != nil {
					return n, fmt.Errorf("repair wal: %w", err)
				}
			}
			break
		}

		raw := data[offset : offset+end]
		offset += end + 1
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		var e walEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return n, &route.Error{Kind: route.KindDecode, Msg: fmt.Sprintf("decode wal line %d: %v", line, err)}
		}
		if e.Route == "" {
			return n, &route.Error{Kind: route.KindDecode, Msg: fmt.Sprintf("decode wal line %d: entry has no route name", line)}
		}
		if err := apply(e); err != nil {
			return n, fmt.Errorf("wal line %d: %w", line, err)
		}
		n++
	}
	return n, nil
}
