package template

import (
	"errors"
	"testing"
	"time"
)

func sequentialID() func() string {
	n := 0
	ids := []string{"id-001", "id-002", "id-003", "id-004", "id-005", "id-006", "id-007", "id-008"}
	return func() string {
		id := ids[n%len(ids)]
		n++
		return id
	}
}

func validTemplate() Template {
	return Template{
		ID:          "tpl-001",
		Name:        "BJJ Fundamentals",
		Description: "Gi fundamentals class",
		Days:        []string{Monday, Wednesday},
		StartTime:   "18:30",
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-07",
	}
}

// TestExpand_WeekdaySelection covers the canonical case: Mon+Wed over
// Jan 1 (Mon) through Jan 7 (Sun) 2024 yields exactly Jan 1 and Jan 3.
func TestExpand_WeekdaySelection(t *testing.T) {
	classes, err := Expand(validTemplate(), sequentialID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
	want := []time.Time{
		time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 18, 30, 0, 0, time.UTC),
	}
	for i, c := range classes {
		if !c.StartsAt.Equal(want[i]) {
			t.Errorf("class %d: expected %v, got %v", i, want[i], c.StartsAt)
		}
		if c.TemplateID != "tpl-001" {
			t.Errorf("class %d: expected TemplateID=tpl-001, got %s", i, c.TemplateID)
		}
		if c.Name != "BJJ Fundamentals" {
			t.Errorf("class %d: expected name copied from template, got %s", i, c.Name)
		}
	}
}

// TestExpand_EveryDaySelected expands a full week with all 7 days selected.
func TestExpand_EveryDaySelected(t *testing.T) {
	tpl := validTemplate()
	tpl.Days = ValidDays
	classes, err := Expand(tpl, sequentialID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 7 {
		t.Fatalf("expected 7 classes, got %d", len(classes))
	}
}

// TestExpand_SingleDayRange tests start==end: at most one instance, and only
// when that day's weekday is selected.
func TestExpand_SingleDayRange(t *testing.T) {
	tpl := validTemplate()
	tpl.StartDate = "2024-01-01" // a Monday
	tpl.EndDate = "2024-01-01"

	classes, err := Expand(tpl, sequentialID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("expected 1 class for matching single day, got %d", len(classes))
	}

	tpl.Days = []string{Tuesday}
	classes, err = Expand(tpl, sequentialID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(classes) != 0 {
		t.Fatalf("expected 0 classes for non-matching single day, got %d", len(classes))
	}
}

// TestExpand_Deterministic re-runs expansion and expects identical dates.
func TestExpand_Deterministic(t *testing.T) {
	first, err := Expand(validTemplate(), sequentialID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Expand(validTemplate(), sequentialID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].StartsAt.Equal(second[i].StartsAt) {
			t.Errorf("class %d: expected %v, got %v", i, first[i].StartsAt, second[i].StartsAt)
		}
	}
}

// TestExpand_InvertedRange expects rejection before any expansion runs.
func TestExpand_InvertedRange(t *testing.T) {
	tpl := validTemplate()
	tpl.StartDate = "2024-02-01"
	tpl.EndDate = "2024-01-01"
	if _, err := Expand(tpl, sequentialID()); !errors.Is(err, ErrInvertedRange) {
		t.Fatalf("expected ErrInvertedRange, got %v", err)
	}
}

// TestValidate exercises the field-level validation rules.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Template)
		wantErr error
	}{
		{"valid", func(*Template) {}, nil},
		{"empty name", func(tpl *Template) { tpl.Name = " " }, ErrEmptyName},
		{"empty description", func(tpl *Template) { tpl.Description = "" }, ErrEmptyDescription},
		{"no days", func(tpl *Template) { tpl.Days = nil }, ErrNoDays},
		{"bad day", func(tpl *Template) { tpl.Days = []string{"funday"} }, ErrInvalidDay},
		{"bad time", func(tpl *Template) { tpl.StartTime = "6pm" }, ErrInvalidTime},
		{"bad start date", func(tpl *Template) { tpl.StartDate = "01/01/2024" }, ErrInvalidDate},
		{"bad end date", func(tpl *Template) { tpl.EndDate = "soon" }, ErrInvalidDate},
		{"inverted range", func(tpl *Template) { tpl.StartDate = "2024-03-01" }, ErrInvertedRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(&tpl)
			if err := tpl.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
