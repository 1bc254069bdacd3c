package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"dojo/internal/adapters/http/middleware"
	accountStore "dojo/internal/adapters/storage/account"
	classStore "dojo/internal/adapters/storage/class"
	ledgerStore "dojo/internal/adapters/storage/ledger"
	membershipStore "dojo/internal/adapters/storage/membership"
	notificationStore "dojo/internal/adapters/storage/notification"
	outboxStore "dojo/internal/adapters/storage/outbox"
	productStore "dojo/internal/adapters/storage/product"
	profileStore "dojo/internal/adapters/storage/profile"
	templateStore "dojo/internal/adapters/storage/template"
	"dojo/internal/application/livequery"
	"dojo/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	ProfileStore      profileStore.Store
	MembershipStore   membershipStore.Store
	TemplateStore     templateStore.Store
	ClassStore        classStore.Store
	LedgerStore       ledgerStore.Store
	NotificationStore notificationStore.Store
	ProductStore      productStore.Store
	OutboxStore       outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from DOJO_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("DOJO_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("DOJO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("DOJO_ENV") == "production" {
		log.Fatal("DOJO_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set DOJO_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global change notifier driving the long-poll event endpoint (set by NewMux)
var notifier *livequery.Notifier

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global outbox processor used by the admin retry endpoint (set by SetOutboxProcessor)
var outboxProcessor *orchestrators.OutboxProcessor

// SetOutboxProcessor wires the processor used for manual retries.
func SetOutboxProcessor(p *orchestrators.OutboxProcessor) {
	outboxProcessor = p
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, n *livequery.Notifier) http.Handler {
	stores = s
	notifier = n
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("DOJO_ENV") == "production"

	mux := http.NewServeMux()
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
