package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	FindAll(ctx context.Context) ([]Record, error)
	FindByID(ctx context.Context, id int64) (Record, error)
}
