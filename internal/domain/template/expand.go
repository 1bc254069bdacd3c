package template

import (
	"time"

	"dojo/internal/domain/class"
)

// Expand generates the concrete class occurrences for a template: one per
// calendar day in [StartDate, EndDate] whose weekday is in the template's
// day set, timestamped at that day combined with StartTime (UTC).
//
// The sequence is finite and deterministic apart from the ids supplied by
// newID — re-expanding an unchanged template yields the same dates, which is
// what makes delete-and-regenerate on edit safe.
// PRE: t has passed Validate
// POST: Returns generated classes in chronological order
func Expand(t Template, newID func() string) ([]class.Class, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	start, _ := time.Parse(DateLayout, t.StartDate)
	end, _ := time.Parse(DateLayout, t.EndDate)
	tod, _ := time.Parse(TimeLayout, t.StartTime)

	selected := make(map[time.Weekday]bool, len(t.Days))
	for _, d := range t.Days {
		selected[dayOfWeek[d]] = true
	}

	var classes []class.Class
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !selected[day.Weekday()] {
			continue
		}
		classes = append(classes, class.Class{
			ID:          newID(),
			Name:        t.Name,
			Description: t.Description,
			StartsAt: time.Date(day.Year(), day.Month(), day.Day(),
				tod.Hour(), tod.Minute(), 0, 0, time.UTC),
			TemplateID: t.ID,
		})
	}
	return classes, nil
}
