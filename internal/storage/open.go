package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getmockd/routestore/pkg/store"
	"github.com/getmockd/routestore/pkg/store/file"
	"github.com/getmockd/routestore/pkg/store/postgres"
)

// Open returns the backend named by cfg.Backend, ready for use.
// An empty backend kind selects memory.
func Open(ctx context.Context, cfg store.Config, logger *slog.Logger) (store.Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case store.KindMemory, "":
		var b store.Backend = NewInMemoryRouteStore(cfg.Codec())
		if cfg.ReadOnly {
			b = NewReadOnlyStore(b)
		}
		return b, nil

	case store.KindFile:
		fs := file.New(cfg)
		fs.SetLogger(logger.With("backend", "file"))
		if err := fs.Open(ctx); err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return fs, nil

	case store.KindPostgres:
		pg, err := postgres.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return pg, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
