package records

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memRepo is an in-memory Repository used by the service tests. Its
// clock advances one millisecond per write so updated_at comparisons
// are deterministic.
type memRepo struct {
	mu    sync.Mutex
	books map[string]Book
	keys  map[string]string // idempotency key -> book id
	clock time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		books: make(map[string]Book),
		keys:  make(map[string]string),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

func (r *memRepo) isbnTaken(isbn, excludeID string) bool {
	if isbn == "" {
		return false
	}
	for id, b := range r.books {
		if id != excludeID && b.ISBN == isbn {
			return true
		}
	}
	return false
}

func (r *memRepo) Create(_ context.Context, b *Book, idempotencyKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idempotencyKey != "" {
		if _, ok := r.keys[idempotencyKey]; ok {
			return ErrDuplicateRequest
		}
	}
	if r.isbnTaken(b.ISBN, b.ID) {
		return ErrConflict
	}

	now := r.tick()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.books[b.ID] = *b
	if idempotencyKey != "" {
		r.keys[idempotencyKey] = b.ID
	}
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *memRepo) GetByIdempotencyKey(_ context.Context, key string) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.keys[key]
	if !ok {
		return Book{}, ErrNotFound
	}
	return r.books[id], nil
}

func (r *memRepo) Update(_ context.Context, id string, p Patch) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}

	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.ISBN != nil {
		if r.isbnTaken(*p.ISBN, id) {
			return Book{}, ErrConflict
		}
		b.ISBN = *p.ISBN
	}
	if p.PublishedYear != nil {
		b.PublishedYear = p.PublishedYear
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Description != nil {
		b.Description = *p.Description
	}

	b.UpdatedAt = r.tick()
	r.books[id] = b
	return b, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memRepo) List(_ context.Context, q Query) ([]Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Book
	for _, b := range r.books {
		if q.Genre != "" && !strings.Contains(strings.ToLower(b.Genre), strings.ToLower(q.Genre)) {
			continue
		}
		if q.Author != "" && !strings.Contains(strings.ToLower(b.Author), strings.ToLower(q.Author)) {
			continue
		}
		if q.AfterID != "" && b.ID <= q.AfterID {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
