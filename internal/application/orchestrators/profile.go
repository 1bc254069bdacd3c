package orchestrators

import (
	"context"
	"log/slog"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/account"
	"dojo/internal/domain/profile"
)

// ProfileStore defines the profile persistence interface used by the
// profile orchestrators.
type ProfileStore interface {
	GetByID(ctx context.Context, userID string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
	DeleteCascade(ctx context.Context, userID string) error
}

// AccountStoreForProfile defines the account access the profile update
// needs when the login email changes.
type AccountStoreForProfile interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// UpdateProfileInput carries the member-editable profile fields. An
// empty Email leaves the login email unchanged.
type UpdateProfileInput struct {
	UserID string
	Name   string
	Email  string
}

// ProfileDeps holds dependencies for the profile orchestrators.
type ProfileDeps struct {
	ProfileStore ProfileStore
	AccountStore AccountStoreForProfile
	Notifier     *livequery.Notifier
}

func (d ProfileDeps) bump() {
	if d.Notifier != nil {
		d.Notifier.Bump(livequery.CollectionProfiles)
	}
}

// ExecuteUpdateProfile updates the member's display name and,
// optionally, the login email. An email change rewrites the account
// record and the mirrored profile field together.
// PRE: UserID identifies an existing profile
// POST: Profile persisted with the new name; account email matches the
// profile email
// INVARIANT: Email stays unique across accounts
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps ProfileDeps) error {
	p, err := deps.ProfileStore.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	p.Name = input.Name
	emailChanged := input.Email != "" && input.Email != p.Email
	if emailChanged {
		if existing, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil && existing.ID != input.UserID {
			return ErrEmailAlreadyExists
		}
		p.Email = input.Email
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if emailChanged {
		acct, err := deps.AccountStore.GetByID(ctx, input.UserID)
		if err != nil {
			return err
		}
		acct.Email = input.Email
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return err
		}
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("profile_event", "event", "profile_updated", "user_id", input.UserID, "email_changed", emailChanged)
	deps.bump()
	return nil
}

// ExecuteRegisterPushToken stores the device's push token on the profile.
// The latest registered device wins; one token per user.
// PRE: UserID identifies an existing profile
// POST: Profile carries the token; empty token unregisters the device
func ExecuteRegisterPushToken(ctx context.Context, userID, token string, deps ProfileDeps) error {
	p, err := deps.ProfileStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	p.PushToken = token
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return err
	}

	slog.Info("profile_event", "event", "push_token_registered", "user_id", userID, "registered", token != "")
	return nil
}

// ExecuteDeleteUser removes the user entirely: profile, membership
// assignment, check-ins and account. Deleting a missing user is a no-op.
// POST: Nothing references the user id
func ExecuteDeleteUser(ctx context.Context, userID string, deps ProfileDeps) error {
	if err := deps.ProfileStore.DeleteCascade(ctx, userID); err != nil {
		return err
	}

	slog.Info("profile_event", "event", "user_deleted", "user_id", userID)
	deps.bump()
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionCheckins)
		deps.Notifier.Bump(livequery.CollectionMemberships)
	}
	return nil
}
