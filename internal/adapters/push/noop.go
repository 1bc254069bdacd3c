package push

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NoopSender logs pushes without delivering them, for development and
// environments without device tokens.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the message but does not deliver it.
func (s *NoopSender) Send(_ context.Context, msg Message) (Result, error) {
	slog.Info("noop_push_send", "token", msg.Token, "title", msg.Title)
	return Result{TicketID: fmt.Sprintf("noop-%d", time.Now().UnixNano())}, nil
}
