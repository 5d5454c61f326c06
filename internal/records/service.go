package records

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Page size bounds for List. Requests above MaxPageSize are clamped,
// not rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Service is the records service: the sole authority over book
// persistence and invariant enforcement. It never retries internally;
// retry policy belongs to the caller.
type Service struct {
	repo Repository
}

// NewService creates a records service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the input, assigns an id and stores the book.
// With an idempotency key, a repeated Create returns the record the
// first call created instead of a duplicate.
func (s *Service) Create(ctx context.Context, n NewBook) (Book, error) {
	var fields []FieldError
	if n.Title == "" {
		fields = append(fields, FieldError{Field: "title", Message: "must not be empty"})
	}
	if n.Author == "" {
		fields = append(fields, FieldError{Field: "author", Message: "must not be empty"})
	}
	if len(fields) > 0 {
		return Book{}, &InvalidArgumentError{Fields: fields}
	}

	if n.IdempotencyKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, n.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Book{}, err
		}
	}

	b := Book{
		ID:            uuid.NewString(),
		Title:         n.Title,
		Author:        n.Author,
		ISBN:          n.ISBN,
		PublishedYear: n.PublishedYear,
		Genre:         n.Genre,
		Description:   n.Description,
	}
	err := s.repo.Create(ctx, &b, n.IdempotencyKey)
	if errors.Is(err, ErrDuplicateRequest) && n.IdempotencyKey != "" {
		// Lost the race against a concurrent request carrying the same key.
		return s.repo.GetByIdempotencyKey(ctx, n.IdempotencyKey)
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

// Get returns the book with the given id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Update applies the supplied fields only and returns the full
// post-update record. id and created_at never change; updated_at is
// refreshed by the store.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Book, error) {
	if p.IsZero() {
		return Book{}, invalidArgument("body", "no fields to update")
	}
	if p.Title != nil && *p.Title == "" {
		return Book{}, invalidArgument("title", "must not be empty")
	}
	if p.Author != nil && *p.Author == "" {
		return Book{}, invalidArgument("author", "must not be empty")
	}
	return s.repo.Update(ctx, id, p)
}

// Delete removes the book. Deleting an absent id reports ErrNotFound,
// so a second Delete of the same id fails rather than silently succeed.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns one page of books ordered by id ascending. The page
// token is opaque to callers and stays valid across calls absent
// concurrent mutation.
func (s *Service) List(ctx context.Context, req ListRequest) (Page, error) {
	cursor, err := DecodeCursor(req.PageToken)
	if err != nil {
		return Page{}, invalidArgument("page_token", "malformed page token")
	}

	size := req.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	// Fetch one extra row to learn whether another page exists.
	books, err := s.repo.List(ctx, Query{
		Genre:   req.Genre,
		Author:  req.Author,
		AfterID: cursor.AfterID,
		Limit:   size + 1,
	})
	if err != nil {
		return Page{}, err
	}

	page := Page{Books: books}
	if len(books) > size {
		page.Books = books[:size]
		page.NextPageToken = EncodeCursor(CursorData{AfterID: page.Books[size-1].ID})
	}
	return page, nil
}
