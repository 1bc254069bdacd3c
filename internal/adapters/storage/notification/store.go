package notification

import (
	"context"

	domain "dojo/internal/domain/notification"
)

// Store persists notifications.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	Save(ctx context.Context, n domain.Notification) error
	List(ctx context.Context) ([]domain.Notification, error)
	// ListForUser returns broadcasts plus notifications targeted at the
	// user, newest first.
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
	Delete(ctx context.Context, id string) error
}
