package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "gymadmin/internal/adapters/http"
	"gymadmin/internal/adapters/http/middleware"
	"gymadmin/internal/adapters/storage"
	sessionStore "gymadmin/internal/adapters/storage/session"
	"gymadmin/internal/domain/member"
	"gymadmin/internal/domain/staffuser"
)

// fakeBackend is an in-memory stand-in for the REST service the console
// fronts. It implements just enough of the API surface for browser flows.
type fakeBackend struct {
	mu            sync.Mutex
	members       map[int64]member.Member
	users         map[int64]staffuser.StaffUser
	nextID        int64
	memberDeletes int
}

// seedMember inserts a member directly, bypassing the console.
func (b *fakeBackend) seedMember(m member.Member) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	m.ID = b.nextID
	b.members[m.ID] = m
	return m.ID
}

// memberDeleteCalls reports how many delete requests the backend received.
func (b *fakeBackend) memberDeleteCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memberDeletes
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		members: make(map[int64]member.Member),
		users:   make(map[int64]staffuser.StaffUser),
		nextID:  100,
	}
	b.users[1] = staffuser.StaffUser{
		ID: 1, Username: "admin", Email: "admin@test.com",
		FirstName: "Admin", LastName: "User", Role: staffuser.RoleAdmin, IsActive: true,
	}
	return b
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "TestPass123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
			return
		}
		b.mu.Lock()
		u := b.users[1]
		b.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "access-browser", "refreshToken": "refresh-browser", "user": u,
		})
	})
	mux.HandleFunc("POST /auth/validate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"valid": true})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "access-browser-2"})
	})
	mux.HandleFunc("GET /auth/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "UP"})
	})

	mux.HandleFunc("GET /members", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		q := r.URL.Query()
		out := []member.Member{}
		for _, m := range b.members {
			if s := q.Get("search"); s != "" && !strings.Contains(strings.ToLower(m.FullName()+" "+m.Email), strings.ToLower(s)) {
				continue
			}
			if mt := q.Get("membershipType"); mt != "" && m.MembershipType != mt {
				continue
			}
			if a := q.Get("isActive"); a != "" && strconv.FormatBool(m.IsActive) != a {
				continue
			}
			out = append(out, m)
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /members", func(w http.ResponseWriter, r *http.Request) {
		var m member.Member
		json.NewDecoder(r.Body).Decode(&m)
		b.mu.Lock()
		b.nextID++
		m.ID = b.nextID
		m.IsActive = true
		b.members[m.ID] = m
		b.mu.Unlock()
		json.NewEncoder(w).Encode(m)
	})
	mux.HandleFunc("GET /members/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		m, ok := b.members[id]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Member not found"})
			return
		}
		json.NewEncoder(w).Encode(m)
	})
	mux.HandleFunc("PUT /members/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var m member.Member
		json.NewDecoder(r.Body).Decode(&m)
		b.mu.Lock()
		existing, ok := b.members[id]
		if ok {
			m.ID = id
			m.IsActive = existing.IsActive
			b.members[id] = m
		}
		b.mu.Unlock()
		json.NewEncoder(w).Encode(m)
	})
	mux.HandleFunc("DELETE /members/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		b.memberDeletes++
		delete(b.members, id)
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []staffuser.StaffUser{}
		for _, u := range b.users {
			out = append(out, u)
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("GET /users/active", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		out := []staffuser.StaffUser{}
		for _, u := range b.users {
			if u.IsActive {
				out = append(out, u)
			}
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var u staffuser.StaffUser
		json.NewDecoder(r.Body).Decode(&u)
		b.mu.Lock()
		b.nextID++
		u.ID = b.nextID
		u.IsActive = true
		b.users[u.ID] = u
		b.mu.Unlock()
		json.NewEncoder(w).Encode(u)
	})

	return mux
}

// testApp holds the running console, the fake backend, and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *fakeBackend
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp starts the console against a fake backend on a free port.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := newFakeBackend()
	backendSrv := httptest.NewServer(backend.handler())
	t.Cleanup(backendSrv.Close)

	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// CSRF origin checking must accept the ephemeral test port.
	os.Setenv("GYMADMIN_TRUSTED_ORIGIN", fmt.Sprintf("127.0.0.1:%d", port))
	t.Cleanup(func() { os.Unsetenv("GYMADMIN_TRUSTED_ORIGIN") })
	web.RateLimitPerSecond = 1000

	mux := web.NewMux(web.Deps{
		SessionStore: sessionStore.NewSQLiteStore(db),
		APIBaseURL:   backendSrv.URL,
		Collector:    middleware.NewCollector(),
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})
	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in as the seeded admin and waits for the dashboard.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill("admin"); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill("TestPass123"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}
