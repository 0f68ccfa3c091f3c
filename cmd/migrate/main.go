package main

import (
	"context"
	"fmt"
	"os"

	"bookstore/db"
	"bookstore/internal/config"
	"bookstore/internal/database"

	"github.com/alecthomas/kong"
	"github.com/pressly/goose/v3"
)

type cli struct {
	Up     upCmd     `cmd:"" help:"Apply all pending migrations."`
	Down   downCmd   `cmd:"" help:"Roll back the most recent migration."`
	Status statusCmd `cmd:"" help:"Show the state of every migration."`
	Create createCmd `cmd:"" help:"Create a new SQL migration file."`
}

type upCmd struct{}

func (c *upCmd) Run() error {
	return withProvider(func(ctx context.Context, p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("applied %s (%s)\n", r.Source.Path, r.Duration)
		}
		fmt.Println("Migrations applied successfully")
		return nil
	})
}

type downCmd struct{}

func (c *downCmd) Run() error {
	return withProvider(func(ctx context.Context, p *goose.Provider) error {
		r, err := p.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("rolled back %s\n", r.Source.Path)
		return nil
	})
}

type statusCmd struct{}

func (c *statusCmd) Run() error {
	return withProvider(func(ctx context.Context, p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-10s %-20s %s\n", s.State, applied, s.Source.Path)
		}
		return nil
	})
}

type createCmd struct {
	Name string `arg:"" help:"Name of the migration."`
	Dir  string `help:"Directory for the new file." default:"${migrations_dir}" env:"MIGRATIONS_DIR"`
}

func (c *createCmd) Run() error {
	if err := goose.Create(nil, c.Dir, c.Name, "sql"); err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	return nil
}

// withProvider opens the configured store for the duration of fn.
func withProvider(fn func(context.Context, *goose.Provider) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := db.NewProvider(store.SQL, store.Driver)
	if err != nil {
		return err
	}
	return fn(ctx, provider)
}

var vars = kong.Vars{"migrations_dir": db.Dir}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("migrate"),
		kong.Description("Manage the books database schema."),
		kong.UsageOnError(),
		vars,
	)
	if err := kctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
