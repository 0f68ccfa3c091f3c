package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepo stores books through database/sql on the modernc.org/sqlite
// driver.
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sql.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + columns + ` FROM books ORDER BY isbn`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepo) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	const query = `SELECT ` + columns + ` FROM books WHERE isbn = ?`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRowContext(timeoutCtx, query, isbn))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("get book %s: %w", isbn, err)
	}
	return b, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, in Book) (Book, error) {
	const query = `
		INSERT INTO books (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + columns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRowContext(timeoutCtx, query,
		in.ISBN, in.AmazonURL, in.Author, in.Language, in.Pages, in.Publisher, in.Title, in.Year,
	))
	if err != nil {
		if isConstraintViolation(err) {
			return Book{}, ErrDuplicateKey
		}
		return Book{}, fmt.Errorf("insert book %s: %w", in.ISBN, err)
	}
	return b, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, isbn string, f Fields) (Book, error) {
	const query = `
		UPDATE books SET
			amazon_url = ?,
			author = ?,
			language = ?,
			pages = ?,
			publisher = ?,
			title = ?,
			year = ?
		WHERE isbn = ?
		RETURNING ` + columns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRowContext(timeoutCtx, query,
		f.AmazonURL, f.Author, f.Language, f.Pages, f.Publisher, f.Title, f.Year, isbn,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("update book %s: %w", isbn, err)
	}
	return b, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, isbn string) error {
	const query = `DELETE FROM books WHERE isbn = ?`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(timeoutCtx, query, isbn)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", isbn, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %s: %w", isbn, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isConstraintViolation matches both the primary SQLITE_CONSTRAINT code and
// its extended variants. The primary key is the only constraint on books.
func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
