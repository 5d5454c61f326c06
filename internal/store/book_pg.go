package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookrecords/internal/records"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookPG implements records.Repository on Postgres. Every call runs
// under its own statement timeout so no operation can hang on a slow
// or unreachable database.
type BookPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBookPG(db *pgxpool.Pool, timeout time.Duration) *BookPG {
	return &BookPG{db: db, timeout: timeout}
}

func (r *BookPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = "id, title, author, isbn, published_year, genre, description, created_at, updated_at"

func scanBook(row pgx.Row) (records.Book, error) {
	var (
		b           records.Book
		isbn        *string
		genre       *string
		description *string
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &isbn, &b.PublishedYear,
		&genre, &description, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return records.Book{}, err
	}
	if isbn != nil {
		b.ISBN = *isbn
	}
	if genre != nil {
		b.Genre = *genre
	}
	if description != nil {
		b.Description = *description
	}
	return b, nil
}

// textOrNull stores "" as NULL so the partial unique index on isbn
// only covers rows that actually carry one.
func textOrNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *BookPG) Create(ctx context.Context, b *records.Book, idempotencyKey string) error {
	const query = `
		INSERT INTO books (id, title, author, isbn, published_year, genre, description, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Author, textOrNull(b.ISBN), b.PublishedYear,
		textOrNull(b.Genre), textOrNull(b.Description), textOrNull(idempotencyKey),
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (r *BookPG) Get(ctx context.Context, id string) (records.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE id = $1", bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return records.Book{}, records.ErrNotFound
		}
		return records.Book{}, classifyError(err)
	}
	return b, nil
}

func (r *BookPG) GetByIdempotencyKey(ctx context.Context, key string) (records.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE idempotency_key = $1", bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return records.Book{}, records.ErrNotFound
		}
		return records.Book{}, classifyError(err)
	}
	return b, nil
}

// Update applies the patch in a single UPDATE so concurrent writes to the
// same row serialize at the store: a patch that loses a race against a
// Delete observes ErrNotFound, one that loses to another patch applies on
// top of it (last writer wins per supplied field set).
func (r *BookPG) Update(ctx context.Context, id string, p records.Patch) (records.Book, error) {
	query := fmt.Sprintf(`
		UPDATE books SET
			title = COALESCE($2, title),
			author = COALESCE($3, author),
			isbn = CASE WHEN $4::text IS NULL THEN isbn WHEN $4 = '' THEN NULL ELSE $4 END,
			published_year = COALESCE($5, published_year),
			genre = CASE WHEN $6::text IS NULL THEN genre WHEN $6 = '' THEN NULL ELSE $6 END,
			description = CASE WHEN $7::text IS NULL THEN description WHEN $7 = '' THEN NULL ELSE $7 END,
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING %s`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		id, p.Title, p.Author, p.ISBN, p.PublishedYear, p.Genre, p.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return records.Book{}, records.ErrNotFound
		}
		return records.Book{}, classifyError(err)
	}
	return b, nil
}

func (r *BookPG) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "DELETE FROM books WHERE id = $1", id)
	if err != nil {
		return classifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (r *BookPG) List(ctx context.Context, q records.Query) ([]records.Book, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genre ILIKE '%%' || $%d || '%%'", argn))
		args = append(args, q.Genre)
		argn++
	}

	if q.Author != "" {
		clauses = append(clauses, fmt.Sprintf("author ILIKE '%%' || $%d || '%%'", argn))
		args = append(args, q.Author)
		argn++
	}

	if q.AfterID != "" {
		clauses = append(clauses, fmt.Sprintf("id > $%d", argn))
		args = append(args, q.AfterID)
		argn++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE %s
		ORDER BY id ASC
		LIMIT $%d`,
		bookColumns, strings.Join(clauses, " AND "), argn)
	args = append(args, q.Limit)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	var out []records.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}
	return out, nil
}
