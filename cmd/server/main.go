package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	emailPkg "dojo/internal/adapters/email"
	web "dojo/internal/adapters/http"
	pushPkg "dojo/internal/adapters/push"
	"dojo/internal/adapters/storage"
	accountStore "dojo/internal/adapters/storage/account"
	classStore "dojo/internal/adapters/storage/class"
	ledgerStore "dojo/internal/adapters/storage/ledger"
	membershipStore "dojo/internal/adapters/storage/membership"
	notificationStore "dojo/internal/adapters/storage/notification"
	outboxStorePkg "dojo/internal/adapters/storage/outbox"
	productStore "dojo/internal/adapters/storage/product"
	profileStore "dojo/internal/adapters/storage/profile"
	templateStore "dojo/internal/adapters/storage/template"
	"dojo/internal/application/livequery"
	"dojo/internal/application/orchestrators"
	"dojo/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("DOJO_DB_PATH", "dojo.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Wrap the DB so slow queries surface in the logs
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	profStore := profileStore.NewSQLiteStore(timedDB)
	outboxStore := outboxStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:      acctStore,
		ProfileStore:      profStore,
		MembershipStore:   membershipStore.NewSQLiteStore(timedDB),
		TemplateStore:     templateStore.NewSQLiteStore(timedDB),
		ClassStore:        classStore.NewSQLiteStore(timedDB),
		LedgerStore:       ledgerStore.NewSQLiteStore(timedDB),
		NotificationStore: notificationStore.NewSQLiteStore(timedDB),
		ProductStore:      productStore.NewSQLiteStore(timedDB),
		OutboxStore:       outboxStore,
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("DOJO_ADMIN_EMAIL", "admin@dojo.local")
	adminPassword := envOrDefault("DOJO_ADMIN_PASSWORD", "change me soon")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore, ProfileStore: profStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email delivery
	var emailSender emailPkg.Sender
	resendKey := os.Getenv("DOJO_RESEND_KEY")
	emailFrom := envOrDefault("DOJO_RESEND_FROM", "Dojo <noreply@dojo.local>")
	if resendKey != "" {
		emailSender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		emailSender = emailPkg.NewNoopSender()
		if os.Getenv("DOJO_ENV") == "production" {
			log.Println("WARNING: DOJO_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set DOJO_RESEND_KEY for real delivery)")
		}
	}

	// Configure push delivery. Expo's gateway needs no credentials; the
	// noop sender exists for environments that must not reach out.
	var pushSender pushPkg.Sender
	if os.Getenv("DOJO_PUSH_DISABLED") != "" {
		pushSender = pushPkg.NewNoopSender()
		log.Println("Push sender configured (noop)")
	} else {
		pushSender = pushPkg.NewExpoSender()
		log.Println("Push sender configured (Expo)")
	}

	// Outbox processor delivers queued emails and pushes with backoff
	processor := orchestrators.NewOutboxProcessor(outboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: emailPkg.NewExecutor(emailSender),
		outbox.ActionTypePush:  pushPkg.NewExecutor(pushSender),
	})
	web.SetOutboxProcessor(processor)

	// Sweep the outbox every minute
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("* * * * *", func() {
		if err := processor.ProcessPending(context.Background()); err != nil {
			slog.Warn("outbox_sweep_failed", "error", err.Error())
		}
	}); err != nil {
		log.Fatalf("failed to schedule outbox sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	notifier := livequery.NewNotifier()
	mux := web.NewMux(stores, notifier)

	addr := envOrDefault("DOJO_ADDR", ":8080")
	log.Printf("Dojo %s starting on %s (env=%s)", version, addr, envOrDefault("DOJO_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
