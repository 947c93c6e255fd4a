package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dialectPostgres = "postgres"
	tableBooks      = "books"

	colID        = "id"
	colTitle     = "title"
	colAuthor    = "author"
	colCategory  = "category"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Ping reports whether the database is reachable.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Record, error) {
	query, args, err := buildFindAllQuery()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Author, &rec.Category, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Record, error) {
	query, args, err := buildFindByIDQuery(id)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err = r.db.QueryRow(timeoutCtx, query, args...).Scan(
		&rec.ID, &rec.Title, &rec.Author, &rec.Category, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("query book %d: %w", id, err)
	}
	return rec, nil
}

func selectBooks() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Select(colID, colTitle, colAuthor, colCategory, colCreatedAt, colUpdatedAt)
}

func buildFindAllQuery() (string, []any, error) {
	query, args, err := selectBooks().
		Order(goqu.I(colID).Asc()).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build list query: %w", err)
	}
	return query, args, nil
}

func buildFindByIDQuery(id int64) (string, []any, error) {
	query, args, err := selectBooks().
		Where(goqu.C(colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build lookup query: %w", err)
	}
	return query, args, nil
}
