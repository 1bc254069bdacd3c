package orchestrators

import (
	"context"
	"encoding/json"
	"time"

	"dojo/internal/domain/outbox"
)

// OutboxStore defines the outbox persistence interface used to enqueue
// delivery actions.
type OutboxStore interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// EmailPayload is the JSON structure for email delivery entries.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// PushPayload is the JSON structure for push delivery entries. Token is
// the target device's push token.
type PushPayload struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// enqueue writes one pending outbox entry. Delivery happens out of band
// in the outbox processor; callers never block on the provider.
func enqueue(ctx context.Context, store OutboxStore, id, actionType string, payload any, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	entry := outbox.Entry{
		ID:         id,
		ActionType: actionType,
		Payload:    string(raw),
		Status:     outbox.StatusPending,
		CreatedAt:  now,
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	return store.Save(ctx, entry)
}
