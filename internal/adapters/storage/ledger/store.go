package ledger

import (
	"context"
	"time"

	domain "dojo/internal/domain/ledger"
)

// Store persists per-user check-in sets. Mutations are transactional
// read-modify-writes at the database, so concurrent check-in and cancel
// for the same (user, class) pair serialize instead of losing updates.
type Store interface {
	// Get returns the user's ledger; a user with no rows gets an empty
	// ledger, never an error.
	Get(ctx context.Context, userID string) (domain.Ledger, error)
	ListAll(ctx context.Context) ([]domain.Ledger, error)
	// CheckIn adds the class to the user's set; already-present is a no-op.
	CheckIn(ctx context.Context, userID, classID string, at time.Time) error
	// Cancel removes the class from the user's set; absent is a no-op.
	Cancel(ctx context.Context, userID, classID string) error
}
