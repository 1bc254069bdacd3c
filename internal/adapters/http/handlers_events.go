package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dojo/internal/application/livequery"
)

// longPollTimeout bounds how long an event request may hang before the
// client is told to poll again. Kept under common proxy idle timeouts.
const longPollTimeout = 25 * time.Second

var knownCollections = map[string]bool{
	livequery.CollectionTemplates:     true,
	livequery.CollectionClasses:       true,
	livequery.CollectionCheckins:      true,
	livequery.CollectionProfiles:      true,
	livequery.CollectionMemberships:   true,
	livequery.CollectionNotifications: true,
	livequery.CollectionProducts:      true,
}

// handleEvents handles GET /api/events/:collection?since=N. The request
// blocks until the collection moves past the client's version, then the
// client refetches the full snapshot. A timeout answers with the current
// version so clients simply poll again.
func handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	collection := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if !knownCollections[collection] {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	var since uint64
	if s := r.URL.Query().Get("since"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = v
	}

	ctx, cancel := context.WithTimeout(r.Context(), longPollTimeout)
	defer cancel()

	version, err := notifier.Wait(ctx, collection, since)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		// Client went away; nothing useful to write.
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Collection": collection,
		"Version":    version,
	})
}
