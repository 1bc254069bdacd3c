package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dojo/internal/adapters/http/middleware"
	"dojo/internal/application/orchestrators"
	accountDomain "dojo/internal/domain/account"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireSession checks for an authenticated session.
// Returns false if the request should not proceed.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	return sess, true
}

// requireAdmin checks the session for admin role and returns the session.
// Returns false if the request should not proceed.
func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return middleware.Session{}, false
	}
	if sess.Role != accountDomain.RoleAdmin {
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "role", sess.Role, "required", "admin")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return middleware.Session{}, false
	}
	return sess, true
}

// handleSignup handles POST /api/signup
func handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Name     string `json:"Name"`
		Email    string `json:"Email"`
		Password string `json:"Password"`
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
	id, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     accountDomain.RoleMember,
	}, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmailAlreadyExists) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Sign the new member straight in
	token, err := sessions.Create(id, input.Email, accountDomain.RoleMember)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, map[string]string{"UserID": id})
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	deps := orchestrators.LoginDeps{AccountStore: stores.AccountStore}
	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			http.Error(w, err.Error(), http.StatusLocked)
			return
		}
		http.Error(w, orchestrators.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]any{
		"UserID":                 result.AccountID,
		"Email":                  result.Email,
		"Role":                   result.Role,
		"PasswordChangeRequired": result.PasswordChangeRequired,
	})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session. Unauthenticated callers get a
// resolved "unauthenticated" state, not an error: the client routes on it.
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID := ""
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		userID = sess.AccountID
	}

	deps := orchestrators.SessionDeps{
		AccountStore:    stores.AccountStore,
		ProfileStore:    stores.ProfileStore,
		MembershipStore: stores.MembershipStore,
	}
	result, err := orchestrators.ExecuteGetSession(r.Context(), userID, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"State":          result.State.String(),
		"UserID":         result.UserID,
		"Email":          result.Email,
		"Role":           result.Role,
		"Name":           result.Name,
		"MembershipID":   result.MembershipID,
		"MembershipName": result.MembershipName,
	})
}

// handleChangePassword handles POST /api/change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"CurrentPassword"`
		NewPassword     string `json:"NewPassword"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	deps := orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, deps)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResetPassword handles POST /api/reset-password. Always answers
// 202 so the endpoint cannot be used to probe for registered emails.
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Email string `json:"Email"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	deps := orchestrators.ChangePasswordDeps{
		AccountStore: stores.AccountStore,
		OutboxStore:  stores.OutboxStore,
	}
	if err := orchestrators.ExecuteResetPassword(r.Context(), input.Email, deps); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
