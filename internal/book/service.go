package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book in primary-key order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// GetByISBN returns a book by its ISBN.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

// Create stores a new book. It fails with ErrDuplicateKey if the isbn is
// taken.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	return s.repo.Create(ctx, b)
}

// Update replaces every mutable field of the book identified by isbn.
func (s *Service) Update(ctx context.Context, isbn string, f Fields) (Book, error) {
	return s.repo.Update(ctx, isbn, f)
}

// Delete removes the book identified by isbn.
func (s *Service) Delete(ctx context.Context, isbn string) error {
	return s.repo.Delete(ctx, isbn)
}
