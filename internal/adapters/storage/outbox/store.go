package outbox

import (
	"context"

	domain "dojo/internal/domain/outbox"
)

// Store persists outbox entries.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	// ListPending returns entries that still need delivery, oldest first.
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
	// ListFailed returns terminal entries for admin inspection, newest first.
	ListFailed(ctx context.Context, limit int) ([]domain.Entry, error)
}
