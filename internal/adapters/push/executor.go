package push

import (
	"context"
	"encoding/json"
	"fmt"
)

// executorPayload mirrors the JSON shape written by the outbox enqueuers.
type executorPayload struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Executor delivers queued push outbox entries through a Sender.
type Executor struct {
	sender Sender
}

// NewExecutor creates an outbox executor for push entries.
func NewExecutor(sender Sender) *Executor {
	return &Executor{sender: sender}
}

// Execute delivers one queued push notification.
// PRE: payload is valid JSON with a token
// POST: Returns the provider ticket id
func (e *Executor) Execute(ctx context.Context, payload string) (string, error) {
	var p executorPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal push payload: %w", err)
	}

	result, err := e.sender.Send(ctx, Message{Token: p.Token, Title: p.Title, Body: p.Body})
	if err != nil {
		return "", err
	}
	return result.TicketID, nil
}
