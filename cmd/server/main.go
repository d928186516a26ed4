package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "gymadmin/internal/adapters/email"
	web "gymadmin/internal/adapters/http"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/adapters/storage"
	sessionStore "gymadmin/internal/adapters/storage/session"
	domainSession "gymadmin/internal/domain/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const sessionSweepInterval = 1 * time.Hour

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	apiBaseURL := envOrDefault("GYMADMIN_API_URL", "http://localhost:3000/api")

	// The console's only persistence: browser sessions. Business data lives
	// behind the backend API.
	dbPath := envOrDefault("GYMADMIN_SESSION_DB", "gymadmin.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open session database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("session database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize session database: %v", err)
	}

	store := sessionStore.NewSQLiteStore(db)

	// Expired session rows accumulate silently without a sweep.
	stopSweep := make(chan struct{})
	go sweepSessions(store, stopSweep)
	defer close(stopSweep)

	// Configure email sender for staff invites
	resendKey := os.Getenv("GYMADMIN_RESEND_KEY")
	emailFrom := envOrDefault("GYMADMIN_RESEND_FROM", "Gym Admin <noreply@gymadmin.local>")
	emailReply := envOrDefault("GYMADMIN_REPLY_TO", "admin@gymadmin.local")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("GYMADMIN_ENV") == "production" {
			log.Println("WARNING: GYMADMIN_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set GYMADMIN_RESEND_KEY for real delivery)")
		}
	}

	collector := middleware.NewCollector()

	mux := web.NewMux(web.Deps{
		SessionStore: store,
		APIBaseURL:   apiBaseURL,
		Collector:    collector,
		EmailSender:  sender,
		EmailFrom:    emailFrom,
		EmailReplyTo: emailReply,
	})

	addr := envOrDefault("GYMADMIN_ADDR", ":8080")
	log.Printf("Gym admin console %s starting on %s (env=%s, backend=%s)",
		version, addr, envOrDefault("GYMADMIN_ENV", "development"), apiBaseURL)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// sweepSessions periodically removes expired session rows.
func sweepSessions(store sessionStore.Store, stop <-chan struct{}) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-domainSession.MaxAge)
			n, err := store.DeleteExpired(context.Background(), cutoff)
			if err != nil {
				log.Printf("session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session sweep removed %d expired sessions", n)
			}
		case <-stop:
			return
		}
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
