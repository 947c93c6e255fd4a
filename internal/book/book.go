package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("book not found")

// Record is a row of the books table as the repository returns it.
type Record struct {
	ID        int64
	Title     string
	Author    string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Book is the public view of a catalog record.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// FromRecord projects a persisted record onto the public view.
func FromRecord(rec Record) Book {
	return Book{
		ID:       rec.ID,
		Title:    rec.Title,
		Author:   rec.Author,
		Category: rec.Category,
	}
}
