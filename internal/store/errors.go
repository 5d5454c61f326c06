package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"bookrecords/internal/records"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Index names from db/migrations; they decide which conflict a 23505 is.
const (
	isbnIndex           = "books_isbn_idx"
	idempotencyKeyIndex = "books_idempotency_key_idx"
)

// classifyError maps driver errors onto the records error taxonomy.
// Anything unrecognized passes through and surfaces as internal.
func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case idempotencyKeyIndex:
			return records.ErrDuplicateRequest
		case isbnIndex:
			return records.ErrConflict
		default:
			return fmt.Errorf("unique violation on %s: %w", pgErr.ConstraintName, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", records.ErrUnavailable, err)
	}

	// An unreachable store (connection refused, DNS failure) is
	// unavailable, not internal.
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", records.ErrUnavailable, err)
	}
	return err
}
