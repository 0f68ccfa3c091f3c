package book

import "errors"

var (
	// ErrNotFound is returned when no book has the requested isbn.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateKey is returned when inserting an isbn that already exists.
	ErrDuplicateKey = errors.New("book already exists")
)

// Book represents a book entity. ISBN is the primary key and never changes
// after creation.
type Book struct {
	ISBN      string `json:"isbn"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// Fields is the mutable part of a book, replaced as a whole on update.
type Fields struct {
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// Fields returns the mutable part of b.
func (b Book) Fields() Fields {
	return Fields{
		AmazonURL: b.AmazonURL,
		Author:    b.Author,
		Language:  b.Language,
		Pages:     b.Pages,
		Publisher: b.Publisher,
		Title:     b.Title,
		Year:      b.Year,
	}
}

// WithISBN builds the full book identified by isbn.
func (f Fields) WithISBN(isbn string) Book {
	return Book{
		ISBN:      isbn,
		AmazonURL: f.AmazonURL,
		Author:    f.Author,
		Language:  f.Language,
		Pages:     f.Pages,
		Publisher: f.Publisher,
		Title:     f.Title,
		Year:      f.Year,
	}
}

const columns = `isbn, amazon_url, author, language, pages, publisher, title, year`

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	err := row.Scan(&b.ISBN, &b.AmazonURL, &b.Author, &b.Language, &b.Pages, &b.Publisher, &b.Title, &b.Year)
	return b, err
}
