package template

import (
	"errors"
	"strings"
	"time"
)

// Day of week constants
const (
	Sunday    = "sunday"
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
)

// ValidDays contains all valid day values.
var ValidDays = []string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// dayOfWeek maps day names to time.Weekday values.
var dayOfWeek = map[string]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

// DateLayout is the calendar-date format used for template ranges.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day format for class start times.
const TimeLayout = "15:04"

// Domain errors
var (
	ErrEmptyName        = errors.New("template name cannot be empty")
	ErrEmptyDescription = errors.New("template description cannot be empty")
	ErrNoDays           = errors.New("template must select at least one weekday")
	ErrInvalidDay       = errors.New("day must be a valid day of the week")
	ErrInvalidTime      = errors.New("start time must be in HH:MM format")
	ErrInvalidDate      = errors.New("dates must be in YYYY-MM-DD format")
	ErrInvertedRange    = errors.New("start date cannot be after end date")
	ErrNotFound         = errors.New("template not found")
)

// Template is a recurrence rule that produces one class occurrence per
// selected weekday for every calendar day in [StartDate, EndDate].
type Template struct {
	ID          string
	Name        string
	Description string
	Days        []string // weekday selectors, subset of ValidDays
	StartTime   string   // HH:MM time-of-day
	StartDate   string   // YYYY-MM-DD, inclusive
	EndDate     string   // YYYY-MM-DD, inclusive
}

// Validate checks if the Template has valid data.
// PRE: Template struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: StartDate <= EndDate, at least one valid weekday selected
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Days) == 0 {
		return ErrNoDays
	}
	for _, d := range t.Days {
		if _, ok := dayOfWeek[d]; !ok {
			return ErrInvalidDay
		}
	}
	if _, err := time.Parse(TimeLayout, t.StartTime); err != nil {
		return ErrInvalidTime
	}
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, t.EndDate)
	if err != nil {
		return ErrInvalidDate
	}
	if start.After(end) {
		return ErrInvertedRange
	}
	return nil
}
