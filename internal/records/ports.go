package records

import (
	"context"
)

// Repository defines the contract for book record storage.
//
// Implementations must serialize writes to the same id at the row level so
// that an Update racing a Delete resolves deterministically: whichever
// commits first wins and the loser of a delete observes ErrNotFound.
type Repository interface {
	// Create inserts the book and fills in its server-managed timestamps.
	// idempotencyKey may be empty. Returns ErrConflict on an isbn
	// collision and ErrDuplicateRequest on an idempotency key collision.
	Create(ctx context.Context, b *Book, idempotencyKey string) error

	// Get returns the live record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Book, error)

	// GetByIdempotencyKey returns the record created under the given
	// idempotency key, or ErrNotFound.
	GetByIdempotencyKey(ctx context.Context, key string) (Book, error)

	// Update applies the supplied fields atomically, refreshes
	// updated_at, and returns the full post-update record.
	Update(ctx context.Context, id string, p Patch) (Book, error)

	// Delete removes the record, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns up to q.Limit records ordered by id ascending,
	// starting after q.AfterID.
	List(ctx context.Context, q Query) ([]Book, error)
}
