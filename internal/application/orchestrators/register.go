package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymadmin/internal/adapters/api"
	sessionStore "gymadmin/internal/adapters/storage/session"
	domain "gymadmin/internal/domain/session"
	"gymadmin/internal/domain/staffuser"
	"gymadmin/internal/domain/validation"
)

// AuthAPIForRegister defines the API client surface needed by Register.
type AuthAPIForRegister interface {
	Register(ctx context.Context, req api.RegisterRequest) (api.AuthResponse, error)
}

// RegisterInput carries the candidate staff account from the register form.
type RegisterInput struct {
	Form staffuser.Input
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	API          AuthAPIForRegister
	SessionStore sessionStore.Store
}

// ExecuteRegister validates the candidate account, creates it through the
// backend, and logs the new user straight in. Validation failures block the
// network call entirely.
// POST: Either FieldErrors is non-empty and no request was made, or the
// account exists and a persisted session is returned
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (LoginResult, validation.FieldErrors, error) {
	if errs := input.Form.Validate(false); errs.Any() {
		return LoginResult{}, errs, nil
	}

	auth, err := deps.API.Register(ctx, api.RegisterRequest{
		Username:  input.Form.Username,
		Email:     input.Form.Email,
		Password:  input.Form.Password,
		FirstName: input.Form.FirstName,
		LastName:  input.Form.LastName,
		Phone:     input.Form.Phone,
		Role:      input.Form.Role,
	})
	if err != nil {
		slog.Info("auth_event", "event", "register_failed", "username", input.Form.Username)
		return LoginResult{}, nil, err
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
		return LoginResult{}, nil, err
	}

	slog.Info("auth_event", "event", "register_success", "username", auth.User.Username, "role", auth.User.Role)
	return LoginResult{SessionToken: sess.Token, Session: sess}, nil, nil
}
