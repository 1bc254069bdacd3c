package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/account"
	"dojo/internal/domain/outbox"
	"dojo/internal/domain/profile"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// ProfileStoreForCreate defines the profile store interface needed by
// CreateAccount.
type ProfileStoreForCreate interface {
	Save(ctx context.Context, p profile.Profile) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Name                   string
	Email                  string
	Password               string
	Role                   string
	PasswordChangeRequired bool
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	ProfileStore ProfileStoreForCreate
	OutboxStore  OutboxStore // optional: nil skips the welcome email
	Notifier     *livequery.Notifier
	GenerateID   func() string    // optional: defaults to uuid
	Now          func() time.Time // optional: defaults to time.Now
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount creates the credential record and the member
// profile together and enqueues a welcome email.
// PRE: Valid email, password >= 8 chars, valid role
// POST: Account and profile share the same id; welcome email queued
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	if input.Email == "" {
		return "", account.ErrEmptyEmail
	}
	if input.Password == "" {
		return "", account.ErrEmptyPassword
	}
	if input.Role == "" {
		input.Role = account.RoleMember
	}
	if input.Name == "" {
		return "", profile.ErrEmptyName
	}

	// Check if email already exists
	_, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return "", ErrEmailAlreadyExists
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	acct := account.Account{
		ID:                     newID(deps.GenerateID),
		Email:                  input.Email,
		Role:                   input.Role,
		CreatedAt:              now,
		PasswordChangeRequired: input.PasswordChangeRequired,
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	prof := profile.Profile{
		UserID:    acct.ID,
		Name:      input.Name,
		Email:     input.Email,
		CreatedAt: now,
	}
	if err := prof.Validate(); err != nil {
		return "", err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}
	if err := deps.ProfileStore.Save(ctx, prof); err != nil {
		return "", err
	}

	if deps.OutboxStore != nil {
		payload := EmailPayload{
			To:      input.Email,
			Subject: "Welcome to the studio",
			Body:    fmt.Sprintf("Hi %s,\n\nYour account is ready. Sign in to see the class schedule and check in to your first class.", input.Name),
		}
		if err := enqueue(ctx, deps.OutboxStore, newID(deps.GenerateID), outbox.ActionTypeEmail, payload, now); err != nil {
			slog.Warn("outbox_enqueue_failed", "action_type", outbox.ActionTypeEmail, "error", err.Error())
		}
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", acct.Role)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionProfiles)
	}
	return acct.ID, nil
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Database is initialized
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Accounts already exist, skip seeding
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Name:                   "Admin",
		Email:                  email,
		Password:               password,
		Role:                   account.RoleAdmin,
		PasswordChangeRequired: true,
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
