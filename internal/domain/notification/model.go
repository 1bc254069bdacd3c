package notification

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyTitle = errors.New("notification title cannot be empty")
	ErrEmptyBody  = errors.New("notification body cannot be empty")
	ErrNotFound   = errors.New("notification not found")
)

// Notification is an announcement pushed to member devices. TargetUserID
// empty means broadcast to every registered device. Body supports Markdown.
type Notification struct {
	ID           string
	Title        string
	Body         string // Markdown content
	TargetUserID string // empty = broadcast
	CreatedAt    time.Time
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notification) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(n.Body) == "" {
		return ErrEmptyBody
	}
	return nil
}

// IsBroadcast reports whether the notification targets all users.
// INVARIANT: Notification fields are not mutated
func (n *Notification) IsBroadcast() bool {
	return n.TargetUserID == ""
}
