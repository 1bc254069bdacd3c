package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dojo/internal/application/orchestrators"
	membershipDomain "dojo/internal/domain/membership"
	profileDomain "dojo/internal/domain/profile"
	"dojo/internal/domain/summary"
)

func membershipDeps() orchestrators.MembershipDeps {
	return orchestrators.MembershipDeps{
		MembershipStore: stores.MembershipStore,
		ProfileStore:    stores.ProfileStore,
		Notifier:        notifier,
		GenerateID:      generateID,
	}
}

// adminUserRow is one row of the admin user list: account, profile and
// membership joined on the shared user id.
type adminUserRow struct {
	UserID         string    `json:"UserID"`
	Name           string    `json:"Name"`
	Email          string    `json:"Email"`
	Role           string    `json:"Role"`
	MembershipID   string    `json:"MembershipID"`
	MembershipName string    `json:"MembershipName"`
	PushRegistered bool      `json:"PushRegistered"`
	CreatedAt      time.Time `json:"CreatedAt"`
}

// handleAdminUsers handles GET (list) and POST (create with a temporary
// password) for /api/admin/users
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		accounts, err := stores.AccountStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		profiles, err := stores.ProfileStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		plans, err := stores.MembershipStore.ListPlans(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		assignments, err := stores.MembershipStore.ListAssignments(ctx)
		if err != nil {
			internalError(w, err)
			return
		}

		profileByID := make(map[string]profileDomain.Profile, len(profiles))
		for _, p := range profiles {
			profileByID[p.UserID] = p
		}
		planNames := make(map[string]string, len(plans))
		for _, p := range plans {
			planNames[p.ID] = p.Name
		}
		planByUser := make(map[string]string, len(assignments))
		for _, a := range assignments {
			planByUser[a.UserID] = a.PlanID
		}

		rows := make([]adminUserRow, 0, len(accounts))
		for _, a := range accounts {
			row := adminUserRow{
				UserID:         a.ID,
				Email:          a.Email,
				Role:           a.Role,
				MembershipID:   membershipDomain.NoMembership,
				MembershipName: membershipDomain.NoMembershipName,
				CreatedAt:      a.CreatedAt,
			}
			if p, ok := profileByID[a.ID]; ok {
				row.Name = p.Name
				row.PushRegistered = p.PushToken != ""
			}
			if planID, ok := planByUser[a.ID]; ok {
				row.MembershipID = planID
				if name, ok := planNames[planID]; ok {
					row.MembershipName = name
				}
			}
			rows = append(rows, row)
		}
		writeJSON(w, http.StatusOK, rows)

	case "POST":
		var input struct {
			Name     string `json:"Name"`
			Email    string `json:"Email"`
			Password string `json:"Password"`
			Role     string `json:"Role"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		deps := orchestrators.CreateAccountDeps{
			AccountStore: stores.AccountStore,
			ProfileStore: stores.ProfileStore,
			OutboxStore:  stores.OutboxStore,
			Notifier:     notifier,
		}
		id, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Role:     input.Role,
			// Admin-issued passwords are temporary
			PasswordChangeRequired: true,
		}, deps)
		if err != nil {
			if errors.Is(err, orchestrators.ErrEmailAlreadyExists) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"UserID": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAdminUserByID handles DELETE /api/admin/users/:id. Deletion
// cascades through profile, membership and ledger, and ends the user's
// live sessions immediately.
func handleAdminUserByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	if id == sess.AccountID {
		http.Error(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteDeleteUser(r.Context(), id, profileDeps()); err != nil {
		internalError(w, err)
		return
	}
	sessions.DeleteForAccount(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleMembershipPlans handles GET (list) and POST (create) for
// /api/memberships
func handleMembershipPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		plans, err := stores.MembershipStore.ListPlans(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		if plans == nil {
			plans = []membershipDomain.Plan{}
		}
		writeJSON(w, http.StatusOK, plans)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input struct {
			Name string `json:"Name"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		id, err := orchestrators.ExecuteCreatePlan(ctx, input.Name, membershipDeps())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleMembershipPlanByID handles PUT (rename) and DELETE for
// /api/memberships/:id
func handleMembershipPlanByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/memberships/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "PUT":
		var input struct {
			Name string `json:"Name"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := orchestrators.ExecuteRenamePlan(r.Context(), id, input.Name, membershipDeps()); err != nil {
			if errors.Is(err, membershipDomain.ErrPlanNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "DELETE":
		if err := orchestrators.ExecuteDeletePlan(r.Context(), id, membershipDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAssignMembership handles POST /api/memberships/assign. Assigning
// the reserved no-membership id revokes the user's plan.
func handleAssignMembership(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		UserID string `json:"UserID"`
		PlanID string `json:"PlanID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteAssignMembership(r.Context(), input.UserID, input.PlanID, membershipDeps()); err != nil {
		if errors.Is(err, profileDomain.ErrNotFound) || errors.Is(err, membershipDomain.ErrPlanNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func summaryDeps() orchestrators.AttendanceSummaryDeps {
	return orchestrators.AttendanceSummaryDeps{
		TemplateStore:   stores.TemplateStore,
		ClassStore:      stores.ClassStore,
		LedgerStore:     stores.LedgerStore,
		ProfileStore:    stores.ProfileStore,
		AccountStore:    stores.AccountStore,
		MembershipStore: stores.MembershipStore,
	}
}

func runSummary(w http.ResponseWriter, r *http.Request) (summary.Report, bool) {
	input := orchestrators.AttendanceSummaryInput{
		StartDate: r.URL.Query().Get("start"),
		EndDate:   r.URL.Query().Get("end"),
	}
	report, err := orchestrators.ExecuteAttendanceSummary(r.Context(), input, summaryDeps())
	if err != nil {
		switch {
		case errors.Is(err, summary.ErrNoData):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, summary.ErrInvertedRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return summary.Report{}, false
	}
	return report, true
}

// handleAdminSummary handles GET /api/admin/summary?start=&end=
func handleAdminSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, ok := runSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAdminSummaryCSV handles GET /api/admin/summary.csv?start=&end=
func handleAdminSummaryCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, ok := runSummary(w, r)
	if !ok {
		return
	}
	data, err := report.CSV()
	if err != nil {
		internalError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-summary-%s-%s.csv",
		report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}
