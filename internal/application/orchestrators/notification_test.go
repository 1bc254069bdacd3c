package orchestrators

import (
	"context"
	"encoding/json"
	"testing"

	"dojo/internal/domain/notification"
	"dojo/internal/domain/outbox"
	"dojo/internal/domain/profile"
)

// mockNotificationStore implements NotificationStore.
type mockNotificationStore struct {
	saved   map[string]notification.Notification
	deleted []string
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{saved: make(map[string]notification.Notification)}
}

func (m *mockNotificationStore) Save(_ context.Context, n notification.Notification) error {
	m.saved[n.ID] = n
	return nil
}

func (m *mockNotificationStore) Delete(_ context.Context, id string) error {
	delete(m.saved, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func notificationDeps(profiles *mockProfileStore) (NotificationDeps, *mockNotificationStore, *mockOutboxStore) {
	store := newMockNotificationStore()
	ob := &mockOutboxStore{}
	return NotificationDeps{
		NotificationStore: store,
		ProfileStore:      profiles,
		OutboxStore:       ob,
		GenerateID:        seqID(),
		Now:               fixedNow,
	}, store, ob
}

func TestExecuteCreateNotification_BroadcastFansOut(t *testing.T) {
	profiles := newMockProfileStore()
	profiles.tokens = []string{"tok-1", "tok-2", "tok-3"}
	deps, store, ob := notificationDeps(profiles)

	id, err := ExecuteCreateNotification(context.Background(), CreateNotificationInput{
		Title: "Gym closed Friday",
		Body:  "**Public holiday.** No classes.",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := store.saved[id]; !ok {
		t.Error("notification should be persisted")
	}
	if len(ob.entries) != 3 {
		t.Fatalf("expected one push entry per device, got %d", len(ob.entries))
	}
	for _, e := range ob.entries {
		if e.ActionType != outbox.ActionTypePush {
			t.Errorf("expected push entry, got %s", e.ActionType)
		}
		var payload PushPayload
		if err := json.Unmarshal([]byte(e.Payload), &payload); err != nil {
			t.Fatalf("payload not valid JSON: %v", err)
		}
		if payload.Title != "Gym closed Friday" {
			t.Errorf("payload missing title: %+v", payload)
		}
	}
}

func TestExecuteCreateNotification_TargetedSingleDevice(t *testing.T) {
	profiles := newMockProfileStore()
	profiles.profiles["user-1"] = profile.Profile{UserID: "user-1", Name: "Ana", Email: "a@b.c", PushToken: "tok-ana"}
	deps, _, ob := notificationDeps(profiles)

	_, err := ExecuteCreateNotification(context.Background(), CreateNotificationInput{
		Title:        "Grading invite",
		Body:         "You are invited to grade on Saturday.",
		TargetUserID: "user-1",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ob.entries) != 1 {
		t.Fatalf("expected exactly one push entry, got %d", len(ob.entries))
	}
	var payload PushPayload
	if err := json.Unmarshal([]byte(ob.entries[0].Payload), &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload.Token != "tok-ana" {
		t.Errorf("expected Ana's token, got %s", payload.Token)
	}
}

func TestExecuteCreateNotification_NoDeviceStillSaves(t *testing.T) {
	profiles := newMockProfileStore()
	profiles.profiles["user-1"] = profile.Profile{UserID: "user-1", Name: "Ana", Email: "a@b.c"}
	deps, store, ob := notificationDeps(profiles)

	id, err := ExecuteCreateNotification(context.Background(), CreateNotificationInput{
		Title:        "Grading invite",
		Body:         "See you Saturday.",
		TargetUserID: "user-1",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.saved[id]; !ok {
		t.Error("in-app feed entry must exist even without a device")
	}
	if len(ob.entries) != 0 {
		t.Errorf("no push entries expected, got %d", len(ob.entries))
	}
}

func TestExecuteCreateNotification_EmptyTitle(t *testing.T) {
	deps, store, _ := notificationDeps(newMockProfileStore())

	_, err := ExecuteCreateNotification(context.Background(), CreateNotificationInput{
		Body: "body only",
	}, deps)
	if err != notification.ErrEmptyTitle {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("invalid notification must not be saved")
	}
}
