package web

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/hkdf"

	"gymadmin/internal/adapters/email"
	"gymadmin/internal/adapters/http/middleware"
	sessionStore "gymadmin/internal/adapters/storage/session"
)

// Deps holds everything the handlers need. Injected explicitly — there is no
// ambient global session state.
type Deps struct {
	SessionStore sessionStore.Store
	APIBaseURL   string
	Collector    *middleware.Collector
	EmailSender  email.Sender
	EmailFrom    string
	EmailReplyTo string
}

// Server carries the handler dependencies.
type Server struct {
	deps Deps
}

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// loadCSRFKey resolves the CSRF secret. GYMADMIN_CSRF_KEY takes a 32-byte
// hex-encoded key directly; otherwise the key is derived from
// GYMADMIN_SECRET_KEY via HKDF-SHA256 so one master secret can serve several
// derived keys. In production one of the two MUST be set; in development a
// random per-startup key is generated.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GYMADMIN_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GYMADMIN_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if secret := os.Getenv("GYMADMIN_SECRET_KEY"); secret != "" {
		key := make([]byte, 32)
		kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("gymadmin-csrf"))
		if _, err := io.ReadFull(kdf, key); err != nil {
			log.Fatalf("failed to derive CSRF key: %v", err)
		}
		return key
	}
	if os.Getenv("GYMADMIN_ENV") == "production" {
		log.Fatal("GYMADMIN_CSRF_KEY or GYMADMIN_SECRET_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (forms won't survive restart). Set GYMADMIN_SECRET_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the console.
func NewMux(deps Deps) http.Handler {
	s := &Server{deps: deps}
	middleware.SecureCookies = os.Getenv("GYMADMIN_ENV") == "production"

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	trusted := []string{"localhost:8080", "127.0.0.1:8080"}
	if origin := os.Getenv("GYMADMIN_TRUSTED_ORIGIN"); origin != "" {
		trusted = append(trusted, origin)
	}

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, trusted),
		middleware.Auth(deps.SessionStore),
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Collector),
	)
}

// registerRoutes binds every console route.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLoginSubmit)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegisterSubmit)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.Handle("GET /dashboard", middleware.RequireAuth(http.HandlerFunc(s.handleDashboard)))

	mux.Handle("GET /members", middleware.RequireAuth(http.HandlerFunc(s.handleMembersPage)))
	mux.Handle("POST /members", middleware.RequireAuth(http.HandlerFunc(s.handleMemberCreate)))
	mux.Handle("POST /members/{id}", middleware.RequireAuth(http.HandlerFunc(s.handleMemberUpdate)))
	mux.Handle("POST /members/{id}/delete", middleware.RequireAuth(http.HandlerFunc(s.handleMemberDelete)))

	mux.Handle("GET /users", middleware.RequireAuth(http.HandlerFunc(s.handleUsersPage)))
	mux.Handle("POST /users", middleware.RequireAuth(http.HandlerFunc(s.handleUserCreate)))
	mux.Handle("POST /users/{id}", middleware.RequireAuth(http.HandlerFunc(s.handleUserUpdate)))
	mux.Handle("POST /users/{id}/delete", middleware.RequireAuth(http.HandlerFunc(s.handleUserDelete)))
}
