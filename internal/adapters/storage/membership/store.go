package membership

import (
	"context"

	domain "dojo/internal/domain/membership"
)

// Store persists membership plans and per-user assignments.
type Store interface {
	GetPlan(ctx context.Context, id string) (domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	SavePlan(ctx context.Context, p domain.Plan) error
	DeletePlan(ctx context.Context, id string) error

	// GetAssignment returns the user's plan id, or domain.NoMembership
	// when no assignment row exists.
	GetAssignment(ctx context.Context, userID string) (string, error)
	ListAssignments(ctx context.Context) ([]domain.Assignment, error)
	// Assign upserts the user's plan. Assigning domain.NoMembership
	// deletes the row instead.
	Assign(ctx context.Context, userID, planID string) error
}
