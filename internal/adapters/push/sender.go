package push

import "context"

// Message is one push notification addressed to a single device token.
type Message struct {
	Token string // Expo push token, e.g. "ExponentPushToken[...]"
	Title string
	Body  string
}

// Result contains the provider's receipt for a delivered message.
type Result struct {
	TicketID string
}

// Sender is the interface for delivering push notifications.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
