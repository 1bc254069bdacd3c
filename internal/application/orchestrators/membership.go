package orchestrators

import (
	"context"
	"log/slog"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/profile"
)

// MembershipStore defines the membership persistence interface used by
// the membership orchestrators.
type MembershipStore interface {
	GetPlan(ctx context.Context, id string) (membership.Plan, error)
	SavePlan(ctx context.Context, p membership.Plan) error
	DeletePlan(ctx context.Context, id string) error
	Assign(ctx context.Context, userID, planID string) error
}

// ProfileLookupStore verifies the target user exists before assignment.
type ProfileLookupStore interface {
	GetByID(ctx context.Context, userID string) (profile.Profile, error)
}

// MembershipDeps holds dependencies for the membership orchestrators.
type MembershipDeps struct {
	MembershipStore MembershipStore
	ProfileStore    ProfileLookupStore
	Notifier        *livequery.Notifier
	GenerateID      func() string
}

func (d MembershipDeps) bump() {
	if d.Notifier != nil {
		d.Notifier.Bump(livequery.CollectionMemberships)
	}
}

// ExecuteCreatePlan creates a membership plan.
// POST: Plan persisted; the reserved no-membership id is rejected
func ExecuteCreatePlan(ctx context.Context, name string, deps MembershipDeps) (string, error) {
	p := membership.Plan{
		ID:   newID(deps.GenerateID),
		Name: name,
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := deps.MembershipStore.SavePlan(ctx, p); err != nil {
		return "", err
	}

	slog.Info("membership_event", "event", "plan_created", "plan_id", p.ID, "name", name)
	deps.bump()
	return p.ID, nil
}

// ExecuteRenamePlan renames an existing plan. Assignments follow the
// plan id, so member rows pick up the new label immediately.
// PRE: id names an existing plan
func ExecuteRenamePlan(ctx context.Context, id, name string, deps MembershipDeps) error {
	p, err := deps.MembershipStore.GetPlan(ctx, id)
	if err != nil {
		return err
	}

	p.Name = name
	if err := p.Validate(); err != nil {
		return err
	}
	if err := deps.MembershipStore.SavePlan(ctx, p); err != nil {
		return err
	}

	slog.Info("membership_event", "event", "plan_renamed", "plan_id", id, "name", name)
	deps.bump()
	return nil
}

// ExecuteDeletePlan removes a plan; users on it fall back to the
// no-membership state and lose member access.
// POST: No assignment references the plan
func ExecuteDeletePlan(ctx context.Context, id string, deps MembershipDeps) error {
	if err := deps.MembershipStore.DeletePlan(ctx, id); err != nil {
		return err
	}

	slog.Info("membership_event", "event", "plan_deleted", "plan_id", id)
	deps.bump()
	return nil
}

// ExecuteAssignMembership puts the user on a plan. Assigning the
// no-membership sentinel removes the assignment and revokes access.
// PRE: userID identifies an existing profile; planID is a plan or the sentinel
// POST: The user's assignment matches planID
func ExecuteAssignMembership(ctx context.Context, userID, planID string, deps MembershipDeps) error {
	if _, err := deps.ProfileStore.GetByID(ctx, userID); err != nil {
		return err
	}
	if planID != membership.NoMembership {
		if _, err := deps.MembershipStore.GetPlan(ctx, planID); err != nil {
			return err
		}
	}

	if err := deps.MembershipStore.Assign(ctx, userID, planID); err != nil {
		return err
	}

	slog.Info("membership_event", "event", "membership_assigned", "user_id", userID, "plan_id", planID)
	deps.bump()
	return nil
}
