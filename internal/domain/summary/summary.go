package summary

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrNoData signals that no class instances fall in the requested range;
// callers show "no data" instead of an all-zero table.
var ErrNoData = errors.New("no classes in the requested range")

// ErrInvertedRange rejects a summary request whose start is after its end.
var ErrInvertedRange = errors.New("start date cannot be after end date")

// Column identifies one class-type count column, keyed by template id and
// labelled with the template's current name.
type Column struct {
	TemplateID string
	Name       string
}

// Row is one user's attendance tally over the range.
type Row struct {
	UserID          string
	Name            string
	MembershipName  string
	AveragePerWeek  float64        // total count / totalWeeks, 2 decimals
	CountByTemplate map[string]int // template id -> count
}

// Report is the aggregated attendance summary for a date range.
type Report struct {
	Start      time.Time
	End        time.Time
	TotalWeeks int
	Columns    []Column
	Rows       []Row
}

// TotalWeeks returns max(1, totalDays/7) for an inclusive day range.
func TotalWeeks(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	weeks := days / 7
	if weeks < 1 {
		return 1
	}
	return weeks
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SortColumns orders columns by the stable list of known template names,
// breaking ties on template id.
func SortColumns(cols []Column) {
	sort.Slice(cols, func(i, j int) bool {
		if cols[i].Name != cols[j].Name {
			return cols[i].Name < cols[j].Name
		}
		return cols[i].TemplateID < cols[j].TemplateID
	})
}

// CSV serializes the report with the export header
// Name, Membership Type, Avg Classes/Week, <template name>... Fields
// containing commas come out quote-wrapped per RFC 4180.
func (r *Report) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Name", "Membership Type", "Avg Classes/Week"}
	for _, col := range r.Columns {
		header = append(header, col.Name)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range r.Rows {
		record := []string{
			row.Name,
			row.MembershipName,
			fmt.Sprintf("%.2f", row.AveragePerWeek),
		}
		for _, col := range r.Columns {
			record = append(record, fmt.Sprintf("%d", row.CountByTemplate[col.TemplateID]))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
