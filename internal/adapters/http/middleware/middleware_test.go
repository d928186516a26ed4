package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sessionStore "gymadmin/internal/adapters/storage/session"
	domain "gymadmin/internal/domain/session"
	"gymadmin/internal/domain/staffuser"
)

// fakeSessionStore serves a fixed set of sessions and records deletes.
type fakeSessionStore struct {
	sessions map[string]domain.Session
	deleted  []string
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (domain.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return domain.Session{}, sessionStore.ErrNotFound
}

func (f *fakeSessionStore) Save(ctx context.Context, value domain.Session) error {
	f.sessions[value.Token] = value
	return nil
}

func (f *fakeSessionStore) UpdateAccessToken(ctx context.Context, token, access string) error {
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

func TestAuthLoadsSession(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]domain.Session{
		"tok-1": {
			Token:     "tok-1",
			User:      staffuser.StaffUser{ID: 3, Username: "ana", Role: staffuser.RoleAdmin},
			CreatedAt: time.Now(),
		},
	}}

	var gotUser staffuser.StaffUser
	var gotOK bool
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = CurrentUser(r.Context())
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "gymadmin_session", Value: "tok-1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !gotOK || gotUser.Username != "ana" {
		t.Errorf("session not loaded into context: ok=%v user=%+v", gotOK, gotUser)
	}
}

// TestAuthDeletesExpiredSession tests that an aged-out session is removed on
// sight and the request proceeds anonymous.
func TestAuthDeletesExpiredSession(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]domain.Session{
		"tok-old": {Token: "tok-old", CreatedAt: time.Now().Add(-48 * time.Hour)},
	}}

	var anonymous bool
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := GetSessionFromContext(r.Context())
		anonymous = !ok
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "gymadmin_session", Value: "tok-old"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !anonymous {
		t.Error("expired session must not reach the handler")
	}
	if len(store.deleted) != 1 || store.deleted[0] != "tok-old" {
		t.Errorf("expired session not deleted: %v", store.deleted)
	}
}

func TestAuthIgnoresStaleCookie(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]domain.Session{}}
	var called bool
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "gymadmin_session", Value: "unknown"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("a stale cookie must fall through anonymous, not block")
	}
}

func TestRequireAuthRedirects(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for anonymous requests")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/members", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect to %q, want /login", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	var called bool
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/members", nil)
	req = req.WithContext(ContextWithSession(req.Context(), domain.Session{Token: "tok-1"}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("authenticated request must pass through")
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"allowed role", staffuser.RoleAdmin, http.StatusOK},
		{"blocked role", staffuser.RoleReceptionist, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(staffuser.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/users", nil)
			req = req.WithContext(ContextWithSession(req.Context(), domain.Session{
				User: staffuser.StaffUser{Role: tt.role},
			}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestCollectorSnapshot(t *testing.T) {
	c := NewCollector()
	if count, avg, max := c.Snapshot(); count != 0 || avg != 0 || max != 0 {
		t.Errorf("empty collector reported %d/%v/%v", count, avg, max)
	}

	c.Record(10 * time.Millisecond)
	c.Record(30 * time.Millisecond)

	count, avg, max := c.Snapshot()
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if avg < 19 || avg > 21 {
		t.Errorf("avg = %v ms, want ~20", avg)
	}
	if max < 29 || max > 31 {
		t.Errorf("max = %v ms, want ~30", max)
	}
}

func TestTimingRecords(t *testing.T) {
	c := NewCollector()
	handler := Timing(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if count, _, _ := c.Snapshot(); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

// TestTimingNilCollector tests that timing without a collector still serves.
func TestTimingNilCollector(t *testing.T) {
	handler := Timing(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
