package profile

import (
	"context"

	domain "dojo/internal/domain/profile"
)

// Store persists member profiles.
type Store interface {
	GetByID(ctx context.Context, userID string) (domain.Profile, error)
	Save(ctx context.Context, p domain.Profile) error
	List(ctx context.Context) ([]domain.Profile, error)
	// ListPushTokens returns every non-empty push token.
	ListPushTokens(ctx context.Context) ([]string, error)
	// DeleteCascade removes the user entirely: profile, membership
	// assignment, check-in records and account in one transaction.
	DeleteCascade(ctx context.Context, userID string) error
}
