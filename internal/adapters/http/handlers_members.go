package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"dojo/internal/application/orchestrators"
	notificationDomain "dojo/internal/domain/notification"
	productDomain "dojo/internal/domain/product"
	profileDomain "dojo/internal/domain/profile"
)

func profileDeps() orchestrators.ProfileDeps {
	return orchestrators.ProfileDeps{
		ProfileStore: stores.ProfileStore,
		AccountStore: stores.AccountStore,
		Notifier:     notifier,
	}
}

// handleProfile handles GET (own profile) and PUT (update name and
// optionally the login email) for /api/profile
func handleProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		p, err := stores.ProfileStore.GetByID(ctx, sess.AccountID)
		if err != nil {
			if errors.Is(err, profileDomain.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"UserID":         p.UserID,
			"Name":           p.Name,
			"Email":          p.Email,
			"PushRegistered": p.PushToken != "",
		})

	case "PUT":
		var input struct {
			Name  string `json:"Name"`
			Email string `json:"Email"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteUpdateProfile(ctx, orchestrators.UpdateProfileInput{
			UserID: sess.AccountID,
			Name:   input.Name,
			Email:  input.Email,
		}, profileDeps())
		if err != nil {
			switch {
			case errors.Is(err, profileDomain.ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handlePushToken handles POST /api/profile/push-token. An empty token
// unregisters the device.
func handlePushToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Token string `json:"Token"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteRegisterPushToken(r.Context(), sess.AccountID, input.Token, profileDeps()); err != nil {
		if errors.Is(err, profileDomain.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// notificationView is the member-facing notification shape. BodyHTML is
// the markdown body rendered server side so every client shows the same
// formatting.
type notificationView struct {
	ID           string    `json:"ID"`
	Title        string    `json:"Title"`
	Body         string    `json:"Body"`
	BodyHTML     string    `json:"BodyHTML"`
	TargetUserID string    `json:"TargetUserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
}

func renderNotification(n notificationDomain.Notification) notificationView {
	var buf bytes.Buffer
	bodyHTML := n.Body
	if err := mdRenderer.Convert([]byte(n.Body), &buf); err == nil {
		bodyHTML = buf.String()
	}
	return notificationView{
		ID:           n.ID,
		Title:        n.Title,
		Body:         n.Body,
		BodyHTML:     bodyHTML,
		TargetUserID: n.TargetUserID,
		CreatedAt:    n.CreatedAt,
	}
}

// handleNotifications handles GET (member feed) and POST (admin create)
// for /api/notifications
func handleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		var list []notificationDomain.Notification
		var err error
		if sess.Role == "admin" {
			list, err = stores.NotificationStore.List(ctx)
		} else {
			list, err = stores.NotificationStore.ListForUser(ctx, sess.AccountID)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		views := make([]notificationView, 0, len(list))
		for _, n := range list {
			views = append(views, renderNotification(n))
		}
		writeJSON(w, http.StatusOK, views)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input struct {
			Title        string `json:"Title"`
			Body         string `json:"Body"`
			TargetUserID string `json:"TargetUserID"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		deps := orchestrators.NotificationDeps{
			NotificationStore: stores.NotificationStore,
			ProfileStore:      stores.ProfileStore,
			OutboxStore:       stores.OutboxStore,
			Notifier:          notifier,
			GenerateID:        generateID,
			Now:               timeNow,
		}
		id, err := orchestrators.ExecuteCreateNotification(ctx, orchestrators.CreateNotificationInput{
			Title:        input.Title,
			Body:         input.Body,
			TargetUserID: input.TargetUserID,
		}, deps)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleNotificationByID handles DELETE /api/notifications/:id
func handleNotificationByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	if r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	deps := orchestrators.NotificationDeps{
		NotificationStore: stores.NotificationStore,
		ProfileStore:      stores.ProfileStore,
		Notifier:          notifier,
	}
	if err := orchestrators.ExecuteDeleteNotification(r.Context(), id, deps); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func productDeps() orchestrators.ProductDeps {
	return orchestrators.ProductDeps{
		ProductStore: stores.ProductStore,
		Notifier:     notifier,
		GenerateID:   generateID,
	}
}

// productInput mirrors the storefront admin form.
type productInput struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
	PriceCents  int64  `json:"PriceCents"`
	ImageURL    string `json:"ImageURL"`
}

// handleProducts handles GET (storefront list) and POST (admin create)
// for /api/products
func handleProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		if _, ok := requireSession(w, r); !ok {
			return
		}
		products, err := stores.ProductStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		if products == nil {
			products = []productDomain.Product{}
		}
		writeJSON(w, http.StatusOK, products)

	case "POST":
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		var input productInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		id, err := orchestrators.ExecuteCreateProduct(ctx, orchestrators.ProductInput{
			Name:        input.Name,
			Description: input.Description,
			PriceCents:  input.PriceCents,
			ImageURL:    input.ImageURL,
		}, productDeps())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"ID": id})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleProductByID handles PUT (update) and DELETE for /api/products/:id
func handleProductByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "PUT":
		var input productInput
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		err := orchestrators.ExecuteUpdateProduct(r.Context(), id, orchestrators.ProductInput{
			Name:        input.Name,
			Description: input.Description,
			PriceCents:  input.PriceCents,
			ImageURL:    input.ImageURL,
		}, productDeps())
		if err != nil {
			if errors.Is(err, productDomain.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "DELETE":
		if err := orchestrators.ExecuteDeleteProduct(r.Context(), id, productDeps()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
