package orchestrators

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dojo/internal/domain/account"
	"dojo/internal/domain/outbox"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
}

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
	OutboxStore  OutboxStore // used by password reset, optional for change
	GenerateID   func() string
	Now          func() time.Time
}

var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword validates the current password and updates to the new one.
// PRE: AccountID is valid, both passwords are non-empty
// POST: Password is updated, PasswordChangeRequired is cleared
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.AccountID == "" || input.CurrentPassword == "" || input.NewPassword == "" {
		return errors.New("all fields are required")
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return errors.New("account not found")
	}

	// Verify current password
	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		return ErrCurrentPasswordWrong
	}

	// Ensure new password is different
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}

	// Set new password (validates length, hashes)
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}

	// Clear the forced change flag
	acct.PasswordChangeRequired = false

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_changed", "account_id", input.AccountID)
	return nil
}

// ExecuteResetPassword issues a temporary password and emails it to the
// account. The next login forces a password change. A missing email is
// reported as success so the endpoint cannot be used to probe accounts.
// POST: Temporary password set, PasswordChangeRequired true, email queued
func ExecuteResetPassword(ctx context.Context, email string, deps ChangePasswordDeps) error {
	if email == "" {
		return account.ErrEmptyEmail
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "reset_ignored", "email", email)
		return nil
	}

	temp, err := temporaryPassword()
	if err != nil {
		return err
	}
	if err := acct.SetPassword(temp); err != nil {
		return err
	}
	acct.PasswordChangeRequired = true
	acct.ResetFailedLogins()

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}
	payload := EmailPayload{
		To:      acct.Email,
		Subject: "Your temporary password",
		Body:    fmt.Sprintf("Your password was reset. Sign in with this temporary password and choose a new one:\n\n%s", temp),
	}
	if err := enqueue(ctx, deps.OutboxStore, newID(deps.GenerateID), outbox.ActionTypeEmail, payload, now); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	return nil
}

// temporaryPassword returns 18 random bytes base64-encoded, comfortably
// above the minimum password length.
func temporaryPassword() (string, error) {
	raw := make([]byte, 18)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
