package orchestrators

import (
	"context"

	"dojo/internal/domain/account"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/session"
)

// AccountStoreForSession defines the account lookup the session
// orchestrator needs.
type AccountStoreForSession interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// MembershipLookupStore resolves the user's assignment and plan label.
type MembershipLookupStore interface {
	GetAssignment(ctx context.Context, userID string) (string, error)
	GetPlan(ctx context.Context, id string) (membership.Plan, error)
}

// SessionDeps holds dependencies for the session orchestrator.
type SessionDeps struct {
	AccountStore    AccountStoreForSession
	ProfileStore    ProfileLookupStore
	MembershipStore MembershipLookupStore
}

// SessionResult carries everything the client needs to route after
// loading: resolved state plus the member's own profile and plan.
type SessionResult struct {
	State          session.State
	UserID         string
	Email          string
	Role           string
	Name           string
	MembershipID   string
	MembershipName string
}

// ExecuteGetSession resolves the caller's access state. An empty userID
// is the unauthenticated state, not an error; missing membership gates
// members but never admins.
// POST: Result.State is never StateLoading
func ExecuteGetSession(ctx context.Context, userID string, deps SessionDeps) (SessionResult, error) {
	if userID == "" {
		return SessionResult{State: session.StateUnauthenticated}, nil
	}

	acct, err := deps.AccountStore.GetByID(ctx, userID)
	if err != nil {
		return SessionResult{State: session.StateUnauthenticated}, nil
	}

	planID, err := deps.MembershipStore.GetAssignment(ctx, userID)
	if err != nil {
		return SessionResult{}, err
	}

	result := SessionResult{
		UserID:         acct.ID,
		Email:          acct.Email,
		Role:           acct.Role,
		MembershipID:   planID,
		MembershipName: membership.NoMembershipName,
	}
	if planID != membership.NoMembership {
		if plan, err := deps.MembershipStore.GetPlan(ctx, planID); err == nil {
			result.MembershipName = plan.Name
		}
	}
	if p, err := deps.ProfileStore.GetByID(ctx, userID); err == nil {
		result.Name = p.Name
	}

	snap := session.Snapshot{
		Loaded:        true,
		Authenticated: true,
		Admin:         acct.IsAdmin(),
		HasMembership: planID != membership.NoMembership,
	}
	result.State = session.Resolve(snap)
	return result, nil
}
