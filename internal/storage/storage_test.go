package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
	"github.com/getmockd/routestore/pkg/store/file"
)

// --- Helper ---

func newRoute(name string, status uint64) route.Route {
	return route.Route{
		Route:            name,
		Request:          route.Request{Method: "GET", Payload: []byte(`{}`)},
		ExpectedResponse: route.Response{Status: status, Body: []byte("ok")},
	}
}

func newStore() *InMemoryRouteStore {
	return NewInMemoryRouteStore(route.DefaultCodec())
}

// --- InMemoryRouteStore Tests ---

func TestNewInMemoryRouteStore(t *testing.T) {
	s := newStore()
	if s == nil {
		t.Fatal("NewInMemoryRouteStore() returned nil")
	}
	if s.Count() != 0 {
		t.Errorf("new store Count() = %d, want 0", s.Count())
	}
}

func TestInMemory_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	if err := s.Insert(ctx, newRoute("r1", 200)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, ok, err := s.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false")
	}
	if !got.Equal(newRoute("r1", 200)) {
		t.Errorf("Get() = %+v, want %+v", got, newRoute("r1", 200))
	}
}

func TestInMemory_InsertOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_ = s.Insert(ctx, newRoute("r1", 200))
	_ = s.Insert(ctx, newRoute("r1", 404))

	got, _, _ := s.Get(ctx, "r1")
	if got.ExpectedResponse.Status != 404 {
		t.Errorf("Get().Status = %d, want 404 after overwrite", got.ExpectedResponse.Status)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1 after overwrite", s.Count())
	}
}

func TestInMemory_ValueSemantics(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	r := newRoute("r1", 200)
	_ = s.Insert(ctx, r)
	r.ExpectedResponse.Body[0] = 'X'

	got, _, _ := s.Get(ctx, "r1")
	if string(got.ExpectedResponse.Body) != "ok" {
		t.Errorf("stored body changed through caller slice: %q", got.ExpectedResponse.Body)
	}

	got.Request.Payload[0] = 'X'
	again, _, _ := s.Get(ctx, "r1")
	if string(again.Request.Payload) != "{}" {
		t.Errorf("stored payload changed through returned slice: %q", again.Request.Payload)
	}
}

func TestInMemory_TooLarge(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryRouteStore(route.Codec{MaxSize: 32})

	err := s.Insert(ctx, newRoute("a-fairly-long-route-name", 200))
	if !errors.Is(err, route.ErrTooLarge) {
		t.Fatalf("Insert() error = %v, want ErrTooLarge", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestInMemory_GetNotFound(t *testing.T) {
	_, ok, err := newStore().Get(context.Background(), "nonexistent")
	if err != nil || ok {
		t.Errorf("Get(nonexistent) = ok %v, err %v; want false, nil", ok, err)
	}
}

func TestInMemory_Remove(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_ = s.Insert(ctx, newRoute("r1", 200))

	removed, err := s.Remove(ctx, "r1")
	if err != nil || !removed {
		t.Errorf("Remove() = %v, %v; want true, nil", removed, err)
	}
	if ok, _ := s.Contains(ctx, "r1"); ok {
		t.Error("Contains() after Remove() = true")
	}

	removed, err = s.Remove(ctx, "r1")
	if err != nil || removed {
		t.Errorf("Remove(missing) = %v, %v; want false, nil", removed, err)
	}
}

func TestInMemory_List(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List() on empty store = %v, want empty non-nil slice", list)
	}

	_ = s.Insert(ctx, newRoute("zeta", 200))
	_ = s.Insert(ctx, newRoute("alpha", 200))
	_ = s.Insert(ctx, newRoute("mid", 200))

	list, _ = s.List(ctx)
	if len(list) != 3 {
		t.Fatalf("List() length = %d, want 3", len(list))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if list[i].Route != want {
			t.Errorf("List()[%d].Route = %q, want %q", i, list[i].Route, want)
		}
	}
}

func TestInMemory_Close(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_ = s.Insert(ctx, newRoute("r1", 200))
	_ = s.Close()

	if err := s.Insert(ctx, newRoute("r2", 200)); !errors.Is(err, store.ErrClosed) {
		t.Errorf("Insert() after Close() = %v, want ErrClosed", err)
	}
	if _, err := s.List(ctx); !errors.Is(err, store.ErrClosed) {
		t.Errorf("List() after Close() = %v, want ErrClosed", err)
	}
}

func TestInMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	const goroutines = 50
	const ops = 100
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				_ = s.Insert(ctx, newRoute(fmt.Sprintf("route-%d-%d", g, i), 200))
			}
		}(g)
	}
	wg.Wait()

	if s.Count() != goroutines*ops {
		t.Errorf("Count() = %d, want %d", s.Count(), goroutines*ops)
	}

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			_, _ = s.List(ctx)
			_, _ = s.Remove(ctx, fmt.Sprintf("route-%d-0", g))
			_, _ = s.Contains(ctx, fmt.Sprintf("route-%d-1", g))
		}(g)
	}
	wg.Wait()

	if s.Count() != goroutines*(ops-1) {
		t.Errorf("Count() = %d, want %d", s.Count(), goroutines*(ops-1))
	}
}

// --- ReadOnlyStore Tests ---

func TestReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	underlying := newStore()
	_ = underlying.Insert(ctx, newRoute("r1", 200))
	ro := NewReadOnlyStore(underlying)

	if ro.Underlying() != underlying {
		t.Error("Underlying() does not match")
	}
	if err := ro.Insert(ctx, newRoute("r2", 200)); !errors.Is(err, store.ErrReadOnly) {
		t.Errorf("Insert() = %v, want ErrReadOnly", err)
	}
	if _, err := ro.Remove(ctx, "r1"); !errors.Is(err, store.ErrReadOnly) {
		t.Errorf("Remove() = %v, want ErrReadOnly", err)
	}
	if ok, _ := ro.Contains(ctx, "r1"); !ok {
		t.Error("Contains(r1) = false, want true")
	}
	if list, _ := ro.List(ctx); len(list) != 1 {
		t.Errorf("List() = %d routes, want 1", len(list))
	}
}

// --- Open Tests ---

func TestOpen_Memory(t *testing.T) {
	for _, kind := range []store.Kind{"", store.KindMemory} {
		b, err := Open(context.Background(), store.Config{Backend: kind, MaxRecordSize: 1024}, nil)
		if err != nil {
			t.Fatalf("Open(%q) error = %v", kind, err)
		}
		if _, ok := b.(*InMemoryRouteStore); !ok {
			t.Errorf("Open(%q) = %T, want *InMemoryRouteStore", kind, b)
		}
	}
}

func TestOpen_MemoryReadOnly(t *testing.T) {
	b, err := Open(context.Background(), store.Config{Backend: store.KindMemory, ReadOnly: true}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := b.(*ReadOnlyStore); !ok {
		t.Errorf("Open() = %T, want *ReadOnlyStore", b)
	}
}

func TestOpen_File(t *testing.T) {
	b, err := Open(context.Background(), store.Config{Backend: store.KindFile, DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()
	if _, ok := b.(*file.FileStore); !ok {
		t.Errorf("Open() = %T, want *file.FileStore", b)
	}
}

func TestOpen_PostgresWithoutDSN(t *testing.T) {
	if _, err := Open(context.Background(), store.Config{Backend: store.KindPostgres}, nil); err == nil {
		t.Error("Open(postgres) without DSN should fail")
	}
}

func TestOpen_Unknown(t *testing.T) {
	if _, err := Open(context.Background(), store.Config{Backend: "sqlite"}, nil); err == nil {
		t.Error("Open(sqlite) should fail")
	}
}
