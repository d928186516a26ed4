package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sessionStore "gymadmin/internal/adapters/storage/session"
	domain "gymadmin/internal/domain/session"
	"gymadmin/internal/domain/staffuser"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "gymadmin_session"

// SecureCookies controls the Secure flag on session cookies. Set to true in
// production behind TLS.
var SecureCookies = false

// Auth returns middleware that loads the persisted session for the request's
// cookie and sets it in context. Expired sessions are deleted on sight. It
// does NOT block unauthenticated requests — use RequireAuth for that.
func Auth(store sessionStore.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				sess, err := store.Get(r.Context(), cookie.Value)
				switch {
				case err == sessionStore.ErrNotFound:
					// Stale cookie; fall through anonymous.
				case err != nil:
					slog.Error("session_event", "event", "session_load_failed", "error", err.Error())
				case sess.Expired(time.Now()):
					if err := store.Delete(r.Context(), sess.Token); err != nil {
						slog.Error("session_event", "event", "session_expire_delete_failed", "error", err.Error())
					}
				default:
					ctx := context.WithValue(r.Context(), sessionContextKey, sess)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that redirects unauthenticated requests to
// the login entry point.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks users without one of the given
// roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !roleSet[sess.User.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (domain.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(domain.Session)
	return sess, ok
}

// CurrentUser returns the authenticated staff user, if any.
func CurrentUser(ctx context.Context) (staffuser.StaffUser, bool) {
	sess, ok := GetSessionFromContext(ctx)
	if !ok {
		return staffuser.StaffUser{}, false
	}
	return sess.User, true
}

// IsAdmin checks if the current session belongs to an ADMIN.
func IsAdmin(ctx context.Context) bool {
	sess, ok := GetSessionFromContext(ctx)
	return ok && sess.User.IsAdmin()
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(domain.MaxAge / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionToken returns the raw cookie value for the current request, or "".
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
