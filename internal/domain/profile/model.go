package profile

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("display name cannot be empty")
	ErrEmptyEmail   = errors.New("email cannot be empty")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrNotFound     = errors.New("profile not found")
)

// Profile mirrors the member-facing account data: display name, email and
// the push token of the most recently registered device.
type Profile struct {
	UserID    string
	Name      string
	Email     string
	PushToken string // empty until a device registers for notifications
	CreatedAt time.Time
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
