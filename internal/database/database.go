// Package database opens the process-wide store handle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const pingTimeout = 2 * time.Second

// Store is the store handle shared for the process lifetime. SQL is always
// set; Pool is set only for Postgres and backs SQL.
type Store struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

// Open connects to the store selected by driver and verifies it answers.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: driver, Pool: pool, SQL: stdlib.OpenDBFromPool(pool)}, nil
	case config.DriverSQLite:
		conn, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Store{Driver: driver, SQL: conn}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", config.RedactDSN(dsn), err)
	}
	return pool, nil
}

// OpenSQLite opens a single-connection SQLite handle; SQLite serializes
// writers anyway and one connection avoids SQLITE_BUSY between them.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("cannot ping sqlite database (%s): %w", dsn, err)
	}
	return conn, nil
}

// Books returns the book repository backed by this store.
func (s *Store) Books(timeout time.Duration) book.Repository {
	if s.Pool != nil {
		return book.NewPostgresRepo(s.Pool, timeout)
	}
	return book.NewSQLiteRepo(s.SQL, timeout)
}

func (s *Store) Ping(ctx context.Context) error {
	if s.Pool != nil {
		return s.Pool.Ping(ctx)
	}
	return s.SQL.PingContext(ctx)
}

// Close releases the handle. The pool is closed after the database/sql
// wrapper that borrows from it.
func (s *Store) Close() {
	_ = s.SQL.Close()
	if s.Pool != nil {
		s.Pool.Close()
	}
}
