package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"bookstore/db"
	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/logging"
)

var sampleBooks = []book.Book{
	{
		ISBN:      "123432122",
		AmazonURL: "https://amazon.com/taco",
		Author:    "Elie",
		Language:  "English",
		Pages:     100,
		Publisher: "Nothing publishers",
		Title:     "my first book",
		Year:      2008,
	},
	{
		ISBN:      "0691161518",
		AmazonURL: "http://a.co/eobPtX2",
		Author:    "Matthew Lane",
		Language:  "english",
		Pages:     264,
		Publisher: "Princeton University Press",
		Title:     "Power-Up: Unlocking the Hidden Mathematics in Video Games",
		Year:      2017,
	},
	{
		ISBN:      "9780262033848",
		AmazonURL: "https://amazon.com/dp/0262033844",
		Author:    "Thomas H. Cormen",
		Language:  "English",
		Pages:     1312,
		Publisher: "MIT Press",
		Title:     "Introduction to Algorithms",
		Year:      2009,
	},
}

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := db.Migrate(ctx, store.SQL, store.Driver); err != nil {
		return err
	}

	inserted, err := seed(ctx, store.Books(cfg.DBTimeout), sampleBooks, logger)
	if err != nil {
		return err
	}
	logger.Info("seed complete", "inserted", inserted, "total", len(sampleBooks))
	return nil
}

// seed inserts books, leaving any that already exist untouched.
func seed(ctx context.Context, repo book.Repository, books []book.Book, logger *slog.Logger) (int, error) {
	inserted := 0
	for _, b := range books {
		if err := book.CheckCreate(b); err != nil {
			return inserted, fmt.Errorf("seed book %s: %w", b.ISBN, err)
		}
		_, err := repo.Create(ctx, b)
		switch {
		case errors.Is(err, book.ErrDuplicateKey):
			logger.Debug("book already present", "isbn", b.ISBN)
		case err != nil:
			return inserted, err
		default:
			inserted++
		}
	}
	return inserted, nil
}
