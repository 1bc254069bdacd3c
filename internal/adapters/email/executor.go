package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yuin/goldmark"
)

// executorPayload mirrors the JSON shape written by the outbox enqueuers.
type executorPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"` // Markdown
}

// Executor delivers queued email outbox entries through a Sender.
type Executor struct {
	sender Sender
}

// NewExecutor creates an outbox executor for email entries.
func NewExecutor(sender Sender) *Executor {
	return &Executor{sender: sender}
}

// Execute sends one queued email. The stored body is Markdown; it is
// rendered to HTML at delivery time so the feed and the email share one
// source text.
// PRE: payload is valid JSON with to and subject set
// POST: Returns the provider message id
func (e *Executor) Execute(ctx context.Context, payload string) (string, error) {
	var p executorPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal email payload: %w", err)
	}
	if p.To == "" {
		return "", fmt.Errorf("email payload has no recipient")
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(p.Body), &html); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}

	result, err := e.sender.Send(ctx, SendRequest{
		To:      []string{p.To},
		Subject: p.Subject,
		HTML:    html.String(),
	})
	if err != nil {
		return "", err
	}
	return result.MessageID, nil
}
