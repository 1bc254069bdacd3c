package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"dojo/internal/application/livequery"
	"dojo/internal/domain/notification"
	"dojo/internal/domain/outbox"
	"dojo/internal/domain/profile"
)

// NotificationStore defines the notification persistence interface used
// by the notification orchestrators.
type NotificationStore interface {
	Save(ctx context.Context, n notification.Notification) error
	Delete(ctx context.Context, id string) error
}

// PushTokenStore resolves the device tokens a notification fans out to.
type PushTokenStore interface {
	GetByID(ctx context.Context, userID string) (profile.Profile, error)
	ListPushTokens(ctx context.Context) ([]string, error)
}

// CreateNotificationInput carries the announcement fields. Empty
// TargetUserID broadcasts to every registered device.
type CreateNotificationInput struct {
	Title        string
	Body         string // Markdown
	TargetUserID string
}

// NotificationDeps holds dependencies for the notification orchestrators.
type NotificationDeps struct {
	NotificationStore NotificationStore
	ProfileStore      PushTokenStore
	OutboxStore       OutboxStore
	Notifier          *livequery.Notifier
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteCreateNotification persists the announcement and enqueues one
// push delivery per target device. Delivery is asynchronous; the
// announcement is visible in-app immediately regardless of push outcome.
// POST: Notification saved; one outbox entry per resolved token
func ExecuteCreateNotification(ctx context.Context, input CreateNotificationInput, deps NotificationDeps) (string, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	n := notification.Notification{
		ID:           newID(deps.GenerateID),
		Title:        input.Title,
		Body:         input.Body,
		TargetUserID: input.TargetUserID,
		CreatedAt:    now,
	}
	if err := n.Validate(); err != nil {
		return "", err
	}

	if err := deps.NotificationStore.Save(ctx, n); err != nil {
		return "", err
	}

	tokens, err := resolveTokens(ctx, n, deps.ProfileStore)
	if err != nil {
		slog.Warn("notification_event", "event", "token_resolution_failed", "notification_id", n.ID, "error", err.Error())
		tokens = nil
	}
	for _, token := range tokens {
		payload := PushPayload{Token: token, Title: n.Title, Body: n.Body}
		if err := enqueue(ctx, deps.OutboxStore, newID(deps.GenerateID), outbox.ActionTypePush, payload, now); err != nil {
			slog.Warn("outbox_enqueue_failed", "action_type", outbox.ActionTypePush, "error", err.Error())
		}
	}

	slog.Info("notification_event", "event", "notification_created", "notification_id", n.ID, "broadcast", n.IsBroadcast(), "devices", len(tokens))
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionNotifications)
	}
	return n.ID, nil
}

// ExecuteDeleteNotification removes an announcement from the in-app feed.
// Already-delivered pushes are not recalled.
func ExecuteDeleteNotification(ctx context.Context, id string, deps NotificationDeps) error {
	if err := deps.NotificationStore.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("notification_event", "event", "notification_deleted", "notification_id", id)
	if deps.Notifier != nil {
		deps.Notifier.Bump(livequery.CollectionNotifications)
	}
	return nil
}

func resolveTokens(ctx context.Context, n notification.Notification, store PushTokenStore) ([]string, error) {
	if n.IsBroadcast() {
		return store.ListPushTokens(ctx)
	}
	p, err := store.GetByID(ctx, n.TargetUserID)
	if err != nil {
		return nil, err
	}
	if p.PushToken == "" {
		return nil, nil
	}
	return []string{p.PushToken}, nil
}
