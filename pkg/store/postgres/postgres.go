// Package postgres provides a PostgreSQL implementation of store.Backend.
//
// Routes live in a single table keyed by name; the record column holds the
// encoded route. The schema is applied with golang-migrate from migrations
// embedded in the binary.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/getmockd/routestore/pkg/route"
	"github.com/getmockd/routestore/pkg/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationsTable records applied schema versions.
const MigrationsTable = "routestore_schema_migrations"

// Store implements store.Backend on PostgreSQL.
type Store struct {
	db       *sql.DB
	codec    route.Codec
	readOnly bool
	logger   *slog.Logger
}

// Open connects to cfg.DSN, applies pending migrations and returns the store.
func Open(ctx context.Context, cfg store.Config, logger *slog.Logger) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres backend requires a dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if !cfg.ReadOnly {
		if err := Migrate(cfg.DSN); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{
		db:       db,
		codec:    cfg.Codec(),
		readOnly: cfg.ReadOnly,
		logger:   logger.With("backend", "postgres"),
	}, nil
}

// Migrate applies all pending up migrations to the database at dsn.
// It uses its own connection pool, closed on return.
func Migrate(dsn string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	drv, err := migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Insert stores or replaces a route.
func (s *Store) Insert(ctx context.Context, r route.Route) error {
	if s.readOnly {
		return store.ErrReadOnly
	}
	data, err := s.codec.Encode(r)
	if err != nil {
		return err
	}

	q := `
		INSERT INTO routes (name, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET record = EXCLUDED.record, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, q, r.Route, data); err != nil {
		return fmt.Errorf("upsert route: %w", err)
	}
	s.logger.Debug("route upserted", "route", r.Route, "bytes", len(data))
	return nil
}

// Get retrieves a route by name.
func (s *Store) Get(ctx context.Context, name string) (route.Route, bool, error) {
	var data []byte
	err := s.db.
		QueryRowContext(ctx, "SELECT record FROM routes WHERE name = $1", name).
		Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return route.Route{}, false, nil
		}
		return route.Route{}, false, fmt.Errorf("select route: %w", err)
	}

	r, err := s.codec.Decode(data)
	if err != nil {
		return route.Route{}, false, err
	}
	return r, true, nil
}

// List returns all routes sorted by name in byte order.
func (s *Store) List(ctx context.Context) ([]route.Route, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM routes ORDER BY name COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("select routes: %w", err)
	}
	defer rows.Close()

	result := make([]route.Route, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		r, err := s.codec.Decode(data)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}
	return result, nil
}

// Remove deletes a route by name and reports whether it existed.
func (s *Store) Remove(ctx context.Context, name string) (bool, error) {
	if s.readOnly {
		return false, store.ErrReadOnly
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM routes WHERE name = $1", name)
	if err != nil {
		return false, fmt.Errorf("delete route: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// Contains reports whether a route is stored under name.
func (s *Store) Contains(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.
		QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM routes WHERE name = $1)", name).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check route: %w", err)
	}
	return exists, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Backend = (*Store)(nil)
