package orchestrators

import (
	"context"
	"time"

	"dojo/internal/domain/account"
	"dojo/internal/domain/class"
	"dojo/internal/domain/ledger"
	"dojo/internal/domain/membership"
	"dojo/internal/domain/profile"
	"dojo/internal/domain/summary"
	"dojo/internal/domain/template"
)

// SummaryTemplateStore lists templates for the summary columns.
type SummaryTemplateStore interface {
	List(ctx context.Context) ([]template.Template, error)
}

// SummaryClassStore lists class instances inside a date range.
type SummaryClassStore interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]class.Class, error)
}

// SummaryLedgerStore lists every user's check-in set.
type SummaryLedgerStore interface {
	ListAll(ctx context.Context) ([]ledger.Ledger, error)
}

// SummaryProfileStore lists member profiles for the summary rows.
type SummaryProfileStore interface {
	List(ctx context.Context) ([]profile.Profile, error)
}

// SummaryAccountStore lists accounts so admin rows can be left out.
type SummaryAccountStore interface {
	List(ctx context.Context) ([]account.Account, error)
}

// SummaryMembershipStore resolves membership labels for the rows.
type SummaryMembershipStore interface {
	ListPlans(ctx context.Context) ([]membership.Plan, error)
	ListAssignments(ctx context.Context) ([]membership.Assignment, error)
}

// AttendanceSummaryInput carries the inclusive date range, as dates.
type AttendanceSummaryInput struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, whole day included
}

// AttendanceSummaryDeps holds dependencies for the summary orchestrator.
type AttendanceSummaryDeps struct {
	TemplateStore   SummaryTemplateStore
	ClassStore      SummaryClassStore
	LedgerStore     SummaryLedgerStore
	ProfileStore    SummaryProfileStore
	AccountStore    SummaryAccountStore
	MembershipStore SummaryMembershipStore
}

// ExecuteAttendanceSummary aggregates every member's check-ins over the
// range into one report: a count per class template plus a weekly
// average. The end date's whole day is included. One-off classes count
// toward the average but have no template column. Admin accounts are
// staff, not attendees, and never get a row.
// PRE: StartDate <= EndDate
// POST: Returns summary.ErrNoData when no class falls in the range
// POST: Report.Rows contains no admin user
func ExecuteAttendanceSummary(ctx context.Context, input AttendanceSummaryInput, deps AttendanceSummaryDeps) (summary.Report, error) {
	start, err := time.ParseInLocation(template.DateLayout, input.StartDate, time.UTC)
	if err != nil {
		return summary.Report{}, template.ErrInvalidDate
	}
	end, err := time.ParseInLocation(template.DateLayout, input.EndDate, time.UTC)
	if err != nil {
		return summary.Report{}, template.ErrInvalidDate
	}
	if start.After(end) {
		return summary.Report{}, summary.ErrInvertedRange
	}
	endOfDay := end.Add(24*time.Hour - time.Second)

	classes, err := deps.ClassStore.ListBetween(ctx, start, endOfDay)
	if err != nil {
		return summary.Report{}, err
	}
	if len(classes) == 0 {
		return summary.Report{}, summary.ErrNoData
	}

	// Map each in-range class to its template for the per-column counts.
	classTemplate := make(map[string]string, len(classes))
	inRangeTemplates := make(map[string]bool)
	for _, c := range classes {
		classTemplate[c.ID] = c.TemplateID
		if c.TemplateID != "" {
			inRangeTemplates[c.TemplateID] = true
		}
	}

	templates, err := deps.TemplateStore.List(ctx)
	if err != nil {
		return summary.Report{}, err
	}
	var columns []summary.Column
	for _, t := range templates {
		if inRangeTemplates[t.ID] {
			columns = append(columns, summary.Column{TemplateID: t.ID, Name: t.Name})
		}
	}
	summary.SortColumns(columns)

	planNames, assignments, err := membershipLabels(ctx, deps.MembershipStore)
	if err != nil {
		return summary.Report{}, err
	}

	ledgers, err := deps.LedgerStore.ListAll(ctx)
	if err != nil {
		return summary.Report{}, err
	}
	ledgerByUser := make(map[string]ledger.Ledger, len(ledgers))
	for _, l := range ledgers {
		ledgerByUser[l.UserID] = l
	}

	profiles, err := deps.ProfileStore.List(ctx)
	if err != nil {
		return summary.Report{}, err
	}

	accounts, err := deps.AccountStore.List(ctx)
	if err != nil {
		return summary.Report{}, err
	}
	adminIDs := make(map[string]bool)
	for _, a := range accounts {
		if a.IsAdmin() {
			adminIDs[a.ID] = true
		}
	}

	totalWeeks := summary.TotalWeeks(start, end)
	rows := make([]summary.Row, 0, len(profiles))
	for _, p := range profiles {
		if adminIDs[p.UserID] {
			continue
		}
		row := summary.Row{
			UserID:          p.UserID,
			Name:            p.Name,
			MembershipName:  membership.NoMembershipName,
			CountByTemplate: make(map[string]int),
		}
		if planID, ok := assignments[p.UserID]; ok {
			if name, ok := planNames[planID]; ok {
				row.MembershipName = name
			}
		}

		total := 0
		for _, classID := range ledgerByUser[p.UserID].ClassIDs {
			templateID, inRange := classTemplate[classID]
			if !inRange {
				continue
			}
			total++
			if templateID != "" {
				row.CountByTemplate[templateID]++
			}
		}
		row.AveragePerWeek = summary.Round2(float64(total) / float64(totalWeeks))
		rows = append(rows, row)
	}

	return summary.Report{
		Start:      start,
		End:        endOfDay,
		TotalWeeks: totalWeeks,
		Columns:    columns,
		Rows:       rows,
	}, nil
}

func membershipLabels(ctx context.Context, store SummaryMembershipStore) (map[string]string, map[string]string, error) {
	plans, err := store.ListPlans(ctx)
	if err != nil {
		return nil, nil, err
	}
	planNames := make(map[string]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}

	assigned, err := store.ListAssignments(ctx)
	if err != nil {
		return nil, nil, err
	}
	assignments := make(map[string]string, len(assigned))
	for _, a := range assigned {
		assignments[a.UserID] = a.PlanID
	}
	return planNames, assignments, nil
}
