package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymadmin/internal/adapters/api"
	sessionStore "gymadmin/internal/adapters/storage/session"
	domain "gymadmin/internal/domain/session"
)

// AuthAPIForLogin defines the API client surface needed by Login.
type AuthAPIForLogin interface {
	Login(ctx context.Context, username, password string) (api.AuthResponse, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	SessionToken string
	Session      domain.Session
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API          AuthAPIForLogin
	SessionStore sessionStore.Store
}

// ErrInvalidCredentials is returned when the backend rejects the login or the
// form is incomplete.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ExecuteLogin exchanges credentials with the backend and persists the
// resulting session so it survives process restarts and page reloads.
// PRE: deps are wired
// POST: On success a session row holds all three credential entries and the
// browser token is returned for the cookie
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	auth, err := deps.API.Login(ctx, input.Username, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username)
		return LoginResult{}, err
	}

	now := time.Now()
	sess := domain.Session{
		Token:        uuid.New().String(),
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		User:         auth.User,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := deps.SessionStore.Save(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "username", auth.User.Username, "role", auth.User.Role)
	return LoginResult{SessionToken: sess.Token, Session: sess}, nil
}
