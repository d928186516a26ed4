package orchestrators

import (
	"context"
	"log/slog"

	sessionStore "gymadmin/internal/adapters/storage/session"
)

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	SessionStore sessionStore.Store
}

// ExecuteLogout destroys the session unconditionally. A missing session is
// not an error; the end state is the same.
// POST: No persisted credentials remain for the token
func ExecuteLogout(ctx context.Context, token string, deps LogoutDeps) error {
	if token == "" {
		return nil
	}
	if err := deps.SessionStore.Delete(ctx, token); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}
