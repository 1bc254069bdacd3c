package class

import (
	"context"
	"time"

	domain "dojo/internal/domain/class"
)

// Store persists ClassInstance state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	List(ctx context.Context) ([]domain.Class, error)
	// ListBetween returns classes with start <= starts_at <= end.
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Class, error)
	Save(ctx context.Context, value domain.Class) error
	// DeleteCascade removes the class and scrubs its id from every user
	// ledger, atomically. Missing classes are a no-op.
	DeleteCascade(ctx context.Context, id string) error
}
