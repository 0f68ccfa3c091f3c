// Package db owns the SQL schema of the books table and applies it with
// goose. The same migration files serve Postgres and SQLite.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Dir is the migrations directory relative to the repository root, used
// by `migrate create`.
const Dir = "db/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the embedded migration files rooted at their
// directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Dialect maps a store driver name to its goose dialect.
func Dialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "postgres":
		return goose.DialectPostgres, nil
	case "sqlite":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}

// NewProvider returns a goose provider over the embedded migrations.
func NewProvider(conn *sql.DB, driver string) (*goose.Provider, error) {
	dialect, err := Dialect(driver)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, conn, Migrations())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, conn *sql.DB, driver string) error {
	provider, err := NewProvider(conn, driver)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
