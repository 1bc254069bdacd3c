package orchestrators

import (
	"context"
	"testing"
	"time"

	"dojo/internal/domain/account"
)

func storeWithAccount(t *testing.T, password string) (*mockAccountStore, account.Account) {
	t.Helper()
	acct := account.Account{
		ID:        "acct-1",
		Email:     "ana@example.com",
		Role:      account.RoleMember,
		CreatedAt: fixedTime,
	}
	if err := acct.SetPassword(password); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	store := newMockAccountStore()
	store.accounts[acct.ID] = acct
	return store, acct
}

func TestExecuteLogin_Success(t *testing.T) {
	store, _ := storeWithAccount(t, "supersecret")

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccountID != "acct-1" || result.Role != account.RoleMember {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestExecuteLogin_WrongPassword(t *testing.T) {
	store, _ := storeWithAccount(t, "supersecret")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "wrong",
	}, LoginDeps{AccountStore: store})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if store.accounts["acct-1"].FailedLogins != 1 {
		t.Errorf("failed attempt should be recorded, got %d", store.accounts["acct-1"].FailedLogins)
	}
}

func TestExecuteLogin_UnknownEmail(t *testing.T) {
	store := newMockAccountStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	}, LoginDeps{AccountStore: store})
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestExecuteLogin_LockedAccount(t *testing.T) {
	store, acct := storeWithAccount(t, "supersecret")
	acct.LockedUntil = time.Now().Add(10 * time.Minute)
	store.accounts[acct.ID] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store})
	if err != ErrAccountLocked {
		t.Errorf("expected ErrAccountLocked, got %v", err)
	}
}

func TestExecuteLogin_SuccessResetsFailures(t *testing.T) {
	store, acct := storeWithAccount(t, "supersecret")
	acct.FailedLogins = 3
	store.accounts[acct.ID] = acct

	if _, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "supersecret",
	}, LoginDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.accounts["acct-1"].FailedLogins != 0 {
		t.Errorf("failures should reset on success, got %d", store.accounts["acct-1"].FailedLogins)
	}
}

func TestExecuteChangePassword_Success(t *testing.T) {
	store, acct := storeWithAccount(t, "supersecret")
	acct.PasswordChangeRequired = true
	store.accounts[acct.ID] = acct

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "supersecret",
		NewPassword:     "evenmoresecret",
	}, ChangePasswordDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := store.accounts["acct-1"]
	if updated.PasswordChangeRequired {
		t.Error("forced change flag should clear")
	}
	if err := updated.CheckPassword("evenmoresecret"); err != nil {
		t.Error("new password should verify")
	}
}

func TestExecuteChangePassword_WrongCurrent(t *testing.T) {
	store, _ := storeWithAccount(t, "supersecret")

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       "acct-1",
		CurrentPassword: "nope",
		NewPassword:     "evenmoresecret",
	}, ChangePasswordDeps{AccountStore: store})
	if err != ErrCurrentPasswordWrong {
		t.Errorf("expected ErrCurrentPasswordWrong, got %v", err)
	}
}

func TestExecuteResetPassword_IssuesTemporaryPassword(t *testing.T) {
	store, _ := storeWithAccount(t, "supersecret")
	ob := &mockOutboxStore{}

	err := ExecuteResetPassword(context.Background(), "ana@example.com", ChangePasswordDeps{
		AccountStore: store,
		OutboxStore:  ob,
		GenerateID:   seqID(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := store.accounts["acct-1"]
	if !updated.PasswordChangeRequired {
		t.Error("reset must force a password change")
	}
	if err := updated.CheckPassword("supersecret"); err == nil {
		t.Error("old password must stop working")
	}
	if len(ob.entries) != 1 {
		t.Errorf("expected one reset email entry, got %d", len(ob.entries))
	}
}

func TestExecuteResetPassword_UnknownEmailIsSilent(t *testing.T) {
	store := newMockAccountStore()
	ob := &mockOutboxStore{}

	err := ExecuteResetPassword(context.Background(), "ghost@example.com", ChangePasswordDeps{
		AccountStore: store,
		OutboxStore:  ob,
	})
	if err != nil {
		t.Errorf("unknown email must not error, got %v", err)
	}
	if len(ob.entries) != 0 {
		t.Errorf("no email should be queued, got %d", len(ob.entries))
	}
}
