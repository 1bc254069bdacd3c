package web

import (
	"net/http"
	"strconv"
	"strings"

	"dojo/internal/application/orchestrators"
	"dojo/internal/domain/outbox"
)

// handleAdminOutbox handles admin endpoints for managing outbox entries.
// Routes: GET /api/admin/outbox (list), POST /api/admin/outbox/:id/retry
// (manual retry), POST /api/admin/outbox/:id/abandon
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	switch r.Method {
	case "GET":
		limitStr := r.URL.Query().Get("limit")
		limit := 50
		if limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		status := r.URL.Query().Get("status")
		if status == "" {
			status = outbox.StatusFailed
		}

		var entries []outbox.Entry
		var err error
		if status == "all" {
			entries, err = stores.OutboxStore.ListPending(ctx, limit)
		} else {
			entries, err = stores.OutboxStore.ListFailed(ctx, limit)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if entries == nil {
			entries = []outbox.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)

	case "POST":
		// Extract entry ID from path: /api/admin/outbox/:id/:action
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 5 || parts[2] != "outbox" {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		entryID := parts[3]
		action := parts[4]

		processor := outboxProcessor
		if processor == nil {
			processor = orchestrators.NewOutboxProcessor(stores.OutboxStore, nil)
		}

		switch action {
		case "retry":
			if err := processor.ProcessSingle(ctx, entryID); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "retry triggered"})

		case "abandon":
			if err := processor.AbandonEntry(ctx, entryID); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})

		default:
			http.Error(w, "unknown action", http.StatusBadRequest)
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
