package class

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("class name cannot be empty")
	ErrZeroStartsAt = errors.New("class start time must be set")
	ErrNotFound     = errors.New("class not found")
)

// Class is one concrete, dated occurrence of a class. Most classes are
// generated from a template; TemplateID is empty for manually created ones.
type Class struct {
	ID          string
	Name        string
	Description string
	StartsAt    time.Time // exact date-time, reference timezone (UTC)
	TemplateID  string    // originating template, empty if created by hand
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.StartsAt.IsZero() {
		return ErrZeroStartsAt
	}
	return nil
}

// FromTemplate reports whether the class was generated from a template.
// INVARIANT: Class fields are not mutated
func (c *Class) FromTemplate() bool {
	return c.TemplateID != ""
}
