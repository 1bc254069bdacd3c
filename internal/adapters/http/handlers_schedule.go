package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dojo/internal/application/orchestrators"
	classDomain "dojo/internal/domain/class"
	ledgerDomain "dojo/internal/domain/ledger"
	templateDomain "dojo/internal/domain/template"
)

func templateDeps() orchestrators.TemplateDeps {
	return orchestrators.TemplateDeps{
		TemplateStore: stores.TemplateStore,
		Notifier:      notifier,
		GenerateID:    generateID,
	}
}

func classDeps() orchestrators.ClassDeps {
	return orchestrators.ClassDeps{
		ClassStore: stores.ClassStore,
		Notifier:   notifier,
		GenerateID: generateID,
	}
}

func checkInDeps() orchestrators.CheckInDeps {
	return orchestrators.CheckInDeps{
		LedgerStore: stores.LedgerStore,
		ClassStore:  stores.ClassStore,
		Notifier:    notifier,
		Now:         timeNow,
	}
}

// templateInput mirrors the admin schedule form.
type templateInput struct {
	Name        string   `json:"Name"`
	Description string   `json:"Description"`
	Days        []string `json:"Days"`
	StartTime   string   `json:"StartTime"`
	StartDate   string   `json:"StartDate"`
	EndDate     string   `json:"EndDate"`
}

func (in templateInput) toOrchestrator() orchestrators.TemplateInput {
	return orchestrators.TemplateInput{
		Name:        in.Name,
		Description: in.Description,
		Days:        in.Days,
		StartTime:   in.StartTime,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
}

// handleTemplates handles GET (list) and POST (create) for /api/templates
func handleTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		templates, err := stores.TemplateStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		if templates == nil {
			templates = []templateDomain.Template{}
		}
		writeJSON(w, http.StatusOK, templates)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input templateInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		id, err := orchestrators.ExecuteCreateTemplate(ctx, input.toOrchestrator(), templateDeps())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTemplateByID handles PUT (update and regenerate) and DELETE
// (cascade) for /api/templates/:id
func handleTemplateByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "PUT":
		var input templateInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteUpdateTemplate(r.Context(), id, input.toOrchestrator(), templateDeps())
		if err != nil {
			if errors.Is(err, templateDomain.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "DELETE":
		if err := orchestrators.ExecuteDeleteTemplate(r.Context(), id, templateDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// classInput mirrors the one-off class form.
type classInput struct {
	Name        string    `json:"Name"`
	Description string    `json:"Description"`
	StartsAt    time.Time `json:"StartsAt"`
}

// handleClasses handles GET (list, optionally ?start=&end=) and POST
// (create one-off) for /api/classes
func handleClasses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		var classes []classDomain.Class
		var err error
		startStr := r.URL.Query().Get("start")
		endStr := r.URL.Query().Get("end")
		if startStr != "" && endStr != "" {
			start, perr := time.Parse(templateDomain.DateLayout, startStr)
			if perr != nil {
				http.Error(w, "invalid start date", http.StatusBadRequest)
				return
			}
			end, perr := time.Parse(templateDomain.DateLayout, endStr)
			if perr != nil {
				http.Error(w, "invalid end date", http.StatusBadRequest)
				return
			}
			// Include the end date's whole day
			classes, err = stores.ClassStore.ListBetween(ctx, start, end.Add(24*time.Hour-time.Second))
		} else {
			classes, err = stores.ClassStore.List(ctx)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if classes == nil {
			classes = []classDomain.Class{}
		}
		writeJSON(w, http.StatusOK, classes)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input classInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		id, err := orchestrators.ExecuteCreateClass(ctx, orchestrators.ClassInput{
			Name:        input.Name,
			Description: input.Description,
			StartsAt:    input.StartsAt,
		}, classDeps())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleClassByID handles PUT (update) and DELETE (cancel, scrubbing
// check-ins) for /api/classes/:id
func handleClassByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/classes/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "PUT":
		var input classInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteUpdateClass(r.Context(), id, orchestrators.ClassInput{
			Name:        input.Name,
			Description: input.Description,
			StartsAt:    input.StartsAt,
		}, classDeps())
		if err != nil {
			if errors.Is(err, classDomain.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "DELETE":
		if err := orchestrators.ExecuteCancelClass(r.Context(), id, classDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCheckins handles GET (own ledger) and POST (check in) for
// /api/checkins
func handleCheckins(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		led, err := stores.LedgerStore.Get(ctx, sess.AccountID)
		if err != nil {
			internalError(w, err)
			return
		}
		if led.ClassIDs == nil {
			led.ClassIDs = []string{}
		}
		writeJSON(w, http.StatusOK, led)

	case "POST":
		var input struct {
			ClassID string `json:"ClassID"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteCheckIn(ctx, orchestrators.CheckInInput{
			UserID:  sess.AccountID,
			ClassID: input.ClassID,
		}, checkInDeps())
		if err != nil {
			if errors.Is(err, classDomain.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			if errors.Is(err, ledgerDomain.ErrUnauthenticated) {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCheckinCancel handles POST /api/checkins/cancel
func handleCheckinCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		ClassID string `json:"ClassID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteCancelCheckIn(r.Context(), orchestrators.CheckInInput{
		UserID:  sess.AccountID,
		ClassID: input.ClassID,
	}, checkInDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
