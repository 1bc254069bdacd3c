package web

import "net/http"

// registerRoutes attaches every API handler to the mux. Paths with a
// trailing slash carry an id (and for outbox, an action) segment parsed
// by the handler.
func registerRoutes(mux *http.ServeMux) {
	// Auth and session
	mux.HandleFunc("/api/signup", handleSignup)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/session", handleSession)
	mux.HandleFunc("/api/change-password", handleChangePassword)
	mux.HandleFunc("/api/reset-password", handleResetPassword)

	// Schedule
	mux.HandleFunc("/api/templates", handleTemplates)
	mux.HandleFunc("/api/templates/", handleTemplateByID)
	mux.HandleFunc("/api/classes", handleClasses)
	mux.HandleFunc("/api/classes/", handleClassByID)
	mux.HandleFunc("/api/checkins", handleCheckins)
	mux.HandleFunc("/api/checkins/cancel", handleCheckinCancel)

	// Member surface
	mux.HandleFunc("/api/profile", handleProfile)
	mux.HandleFunc("/api/profile/push-token", handlePushToken)
	mux.HandleFunc("/api/notifications", handleNotifications)
	mux.HandleFunc("/api/notifications/", handleNotificationByID)
	mux.HandleFunc("/api/products", handleProducts)
	mux.HandleFunc("/api/products/", handleProductByID)

	// Memberships
	mux.HandleFunc("/api/memberships", handleMembershipPlans)
	mux.HandleFunc("/api/memberships/assign", handleAssignMembership)
	mux.HandleFunc("/api/memberships/", handleMembershipPlanByID)

	// Admin
	mux.HandleFunc("/api/admin/users", handleAdminUsers)
	mux.HandleFunc("/api/admin/users/", handleAdminUserByID)
	mux.HandleFunc("/api/admin/summary", handleAdminSummary)
	mux.HandleFunc("/api/admin/summary.csv", handleAdminSummaryCSV)
	mux.HandleFunc("/api/admin/outbox", handleAdminOutbox)
	mux.HandleFunc("/api/admin/outbox/", handleAdminOutbox)

	// Live updates
	mux.HandleFunc("/api/events/", handleEvents)
}
