package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

// newTestStore creates a FileStore backed by a temp directory.
// It opens the store and registers cleanup to close it.
func newTestStore(t *testing.T, dir string) *FileStore {
	t.Helper()
	fs := New(store.Config{
		DataDir:       dir,
		MaxRecordSize: route.DefaultMaxSize,
	})
	if err := fs.Open(context.Background()); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func newRoute(name, method string, status uint64, body string) route.Route {
	return route.Route{
		Route:            name,
		Request:          route.Request{Method: method, Payload: []byte(`{"n":"` + name + `"}`)},
		ExpectedResponse: route.Response{Status: status, Body: []byte(body)},
	}
}

func TestFileStore_Open_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	fs := newTestStore(t, dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, fs.DataDir())
}

func TestFileStore_Open_EmptyDirStartsFresh(t *testing.T) {
	fs := newTestStore(t, t.TempDir())
	list, err := fs.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFileStore_CRUD(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t, t.TempDir())

	r := newRoute("r1", "GET", 200, "ok")
	require.NoError(t, fs.Insert(ctx, r))

	got, ok, err := fs.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r, got)

	ok, err = fs.Contains(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := fs.Remove(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = fs.Remove(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok, err = fs.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_List_SortedByName(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t, t.TempDir())
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, fs.Insert(ctx, newRoute(name, "GET", 200, name)))
	}

	list, err := fs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Route)
	assert.Equal(t, "b", list[1].Route)
	assert.Equal(t, "c", list[2].Route)
}

func TestFileStore_ReopenReplaysWAL(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs := New(store.Config{DataDir: dir})
	require.NoError(t, fs.Open(ctx))
	require.NoError(t, fs.Insert(ctx, newRoute("keep", "GET", 200, "ok")))
	require.NoError(t, fs.Insert(ctx, newRoute("gone", "GET", 200, "ok")))
	require.NoError(t, fs.Insert(ctx, newRoute("keep", "POST", 201, "replaced")))
	_, err := fs.Remove(ctx, "gone")
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	reopened := newTestStore(t, dir)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, newRoute("keep", "POST", 201, "replaced"), list[0])
}

func TestFileStore_CompactThenReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs := New(store.Config{DataDir: dir})
	require.NoError(t, fs.Open(ctx))
	require.NoError(t, fs.Insert(ctx, newRoute("a", "GET", 200, "a")))
	require.NoError(t, fs.Insert(ctx, newRoute("b", "GET", 200, "b")))
	require.NoError(t, fs.Compact(ctx))

	walInfo, err := os.Stat(filepath.Join(dir, WALFile))
	require.NoError(t, err)
	assert.Zero(t, walInfo.Size(), "WAL should be empty after compaction")

	// Mutations after compaction land in the fresh WAL.
	_, err = fs.Remove(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	reopened := newTestStore(t, dir)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Route)
}

func TestFileStore_AutoCompact(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs := New(store.Config{DataDir: dir, CompactEvery: 3})
	require.NoError(t, fs.Open(ctx))
	t.Cleanup(func() { _ = fs.Close() })

	for i := 0; i < 3; i++ {
		require.NoError(t, fs.Insert(ctx, newRoute(fmt.Sprintf("r%d", i), "GET", 200, "ok")))
	}

	_, err := os.Stat(filepath.Join(dir, SnapshotFile))
	require.NoError(t, err, "snapshot should exist after CompactEvery appends")
	assert.Equal(t, 0, fs.wal.Ops())
}

func TestFileStore_TornTailIsDropped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs := New(store.Config{DataDir: dir})
	require.NoError(t, fs.Open(ctx))
	require.NoError(t, fs.Insert(ctx, newRoute("r1", "GET", 200, "ok")))
	require.NoError(t, fs.Close())

	walPath := filepath.Join(dir, WALFile)
	f, err := os.OpenFile(walPath, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"op":"put","route":"r2","rec`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened := newTestStore(t, dir)
	list, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].Route)

	// The torn bytes are cut so later appends start on a clean line.
	require.NoError(t, reopened.Insert(ctx, newRoute("r3", "GET", 200, "ok")))
	data, err := os.ReadFile(walPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"rec{`)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestFileStore_CorruptWALLine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, WALFile), []byte("garbage\n"), 0600))

	fs := New(store.Config{DataDir: dir})
	err := fs.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrDecode)
}

func TestFileStore_CorruptRecord(t *testing.T) {
	// {"route":"a","request":{"method":"GET","payload":null},"expected_response":{"status":200,"body":null}}
	recordA := "eyJyb3V0ZSI6ImEiLCJyZXF1ZXN0Ijp7Im1ldGhvZCI6IkdFVCIsInBheWxvYWQiOm51bGx9LCJleHBlY3RlZF9yZXNwb25zZSI6eyJzdGF0dXMiOjIwMCwiYm9keSI6bnVsbH19"

	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{
			name:     "wal record is not json",
			file:     WALFile,
			contents: `{"op":"put","route":"r1","record":"bm90IGpzb24="}` + "\n", // "not json"
		},
		{
			name:     "wal record under another name",
			file:     WALFile,
			contents: `{"op":"put","route":"b","record":"` + recordA + `"}` + "\n",
		},
		{
			name:     "snapshot record under another name",
			file:     SnapshotFile,
			contents: `{"version":1,"routes":{"b":"` + recordA + `"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.contents), 0600))

			fs := New(store.Config{DataDir: dir})
			err := fs.Open(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, route.ErrDecode)
		})
	}
}

func TestFileStore_RecordUnderOwnNameLoads(t *testing.T) {
	dir := t.TempDir()
	recordA := "eyJyb3V0ZSI6ImEiLCJyZXF1ZXN0Ijp7Im1ldGhvZCI6IkdFVCIsInBheWxvYWQiOm51bGx9LCJleHBlY3RlZF9yZXNwb25zZSI6eyJzdGF0dXMiOjIwMCwiYm9keSI6bnVsbH19"
	line := `{"op":"put","route":"a","record":"` + recordA + `"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, WALFile), []byte(line), 0600))

	fs := New(store.Config{DataDir: dir})
	require.NoError(t, fs.Open(context.Background()))
	t.Cleanup(func() { _ = fs.Close() })

	got, ok, err := fs.Get(context.Background(), "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "GET", got.Request.Method)
}

func TestFileStore_CorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SnapshotFile), []byte("{not json"), 0600))

	fs := New(store.Config{DataDir: dir})
	err := fs.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrDecode)
}

func TestFileStore_RecordTooLarge(t *testing.T) {
	ctx := context.Background()
	fs := New(store.Config{DataDir: t.TempDir(), MaxRecordSize: 64})
	require.NoError(t, fs.Open(ctx))
	t.Cleanup(func() { _ = fs.Close() })

	r := newRoute("big", "POST", 200, strings.Repeat("x", 128))
	err := fs.Insert(ctx, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, route.ErrTooLarge)

	ok, err := fs.Contains(ctx, "big")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writer := New(store.Config{DataDir: dir})
	require.NoError(t, writer.Open(ctx))
	require.NoError(t, writer.Insert(ctx, newRoute("r1", "GET", 200, "ok")))
	require.NoError(t, writer.Close())

	ro := New(store.Config{DataDir: dir, ReadOnly: true})
	require.NoError(t, ro.Open(ctx))
	t.Cleanup(func() { _ = ro.Close() })

	assert.ErrorIs(t, ro.Insert(ctx, newRoute("r2", "GET", 200, "ok")), store.ErrReadOnly)
	_, err := ro.Remove(ctx, "r1")
	assert.ErrorIs(t, err, store.ErrReadOnly)
	assert.ErrorIs(t, ro.Compact(ctx), store.ErrReadOnly)

	_, ok, err := ro.Get(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStore_ClosedStore(t *testing.T) {
	ctx := context.Background()
	fs := New(store.Config{DataDir: t.TempDir()})
	require.NoError(t, fs.Open(ctx))
	require.NoError(t, fs.Close())
	require.NoError(t, fs.Close(), "Close should be idempotent")

	assert.True(t, errors.Is(fs.Insert(ctx, newRoute("r", "GET", 200, "")), store.ErrClosed))
	_, err := fs.List(ctx)
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestFileStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t, t.TempDir())

	const goroutines = 10
	const ops = 20
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				_ = fs.Insert(ctx, newRoute(fmt.Sprintf("r-%d-%d", g, i), "GET", 200, "ok"))
				_, _ = fs.List(ctx)
			}
		}(g)
	}
	wg.Wait()

	list, err := fs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, goroutines*ops)
}
