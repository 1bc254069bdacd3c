package orchestrators

import (
	"context"
	"encoding/json"
	"testing"

	"dojo/internal/domain/account"
	"dojo/internal/domain/outbox"
	"dojo/internal/domain/profile"
)

// mockAccountStore implements the account store interfaces used across
// the auth orchestrators.
type mockAccountStore struct {
	accounts map[string]account.Account // by id
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// mockProfileStore implements ProfileStore.
type mockProfileStore struct {
	profiles map[string]profile.Profile
	tokens   []string
	deleted  []string
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]profile.Profile)}
}

func (m *mockProfileStore) GetByID(_ context.Context, userID string) (profile.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileStore) Save(_ context.Context, p profile.Profile) error {
	m.profiles[p.UserID] = p
	return nil
}

func (m *mockProfileStore) List(_ context.Context) ([]profile.Profile, error) {
	var out []profile.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProfileStore) ListPushTokens(_ context.Context) ([]string, error) {
	return m.tokens, nil
}

func (m *mockProfileStore) DeleteCascade(_ context.Context, userID string) error {
	delete(m.profiles, userID)
	m.deleted = append(m.deleted, userID)
	return nil
}

// mockOutboxStore records enqueued entries.
type mockOutboxStore struct {
	entries []outbox.Entry
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestExecuteCreateAccount_CreatesAccountAndProfile(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	ob := &mockOutboxStore{}

	id, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "supersecret",
	}, CreateAccountDeps{
		AccountStore: accounts,
		ProfileStore: profiles,
		OutboxStore:  ob,
		GenerateID:   seqID(),
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acct := accounts.accounts[id]
	if acct.Role != account.RoleMember {
		t.Errorf("expected member role by default, got %s", acct.Role)
	}
	if acct.PasswordHash == "" || acct.PasswordHash == "supersecret" {
		t.Error("password must be stored hashed")
	}

	prof, ok := profiles.profiles[id]
	if !ok {
		t.Fatal("expected profile sharing the account id")
	}
	if prof.Name != "Ana" || prof.Email != "ana@example.com" {
		t.Errorf("unexpected profile: %+v", prof)
	}

	if len(ob.entries) != 1 {
		t.Fatalf("expected one welcome email entry, got %d", len(ob.entries))
	}
	entry := ob.entries[0]
	if entry.ActionType != outbox.ActionTypeEmail || entry.Status != outbox.StatusPending {
		t.Errorf("unexpected outbox entry: %+v", entry)
	}
	var payload EmailPayload
	if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.To != "ana@example.com" {
		t.Errorf("welcome email to wrong address: %s", payload.To)
	}
}

func TestExecuteCreateAccount_DuplicateEmail(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()

	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles, GenerateID: seqID()}
	input := CreateAccountInput{Name: "Ana", Email: "ana@example.com", Password: "supersecret"}

	if _, err := ExecuteCreateAccount(context.Background(), input, deps); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := ExecuteCreateAccount(context.Background(), input, deps); err != ErrEmailAlreadyExists {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestExecuteCreateAccount_ShortPassword(t *testing.T) {
	deps := CreateAccountDeps{AccountStore: newMockAccountStore(), ProfileStore: newMockProfileStore()}

	_, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Name: "Ana", Email: "ana@example.com", Password: "short",
	}, deps)
	if err != account.ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestExecuteSeedAdmin_OnlyOnEmptyDatabase(t *testing.T) {
	accounts := newMockAccountStore()
	profiles := newMockProfileStore()
	deps := CreateAccountDeps{AccountStore: accounts, ProfileStore: profiles, GenerateID: seqID()}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@example.com", "adminsecret"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if n, _ := accounts.Count(context.Background()); n != 1 {
		t.Fatalf("expected 1 account, got %d", n)
	}
	for _, a := range accounts.accounts {
		if a.Role != account.RoleAdmin || !a.PasswordChangeRequired {
			t.Errorf("seeded admin misconfigured: %+v", a)
		}
	}

	// Second seed is a no-op.
	if err := ExecuteSeedAdmin(context.Background(), deps, "other@example.com", "othersecret"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if n, _ := accounts.Count(context.Background()); n != 1 {
		t.Errorf("seed must not run with existing accounts, got %d", n)
	}
}
