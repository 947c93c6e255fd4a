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

// GetAll returns every book in the catalog. The result is never nil.
func (s *Service) GetAll(ctx context.Context) ([]Book, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Book, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out, nil
}

// Get returns a book by its id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	return FromRecord(rec), nil
}
