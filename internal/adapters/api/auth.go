package api

import (
	"context"
	"net/http"

	"gymadmin/internal/domain/staffuser"
)

// AuthResponse is the shape returned by login, register, and refresh.
type AuthResponse struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         staffuser.StaffUser `json:"user"`
}

// RegisterRequest carries the fields for a new staff account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

// Login exchanges credentials for tokens and a user snapshot. The caller is
// responsible for persisting the result; the client stores nothing here.
// POST: Returns AuthError on invalid credentials with the backend's message
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	payload := map[string]string{"username": username, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload, &out)
	return out, err
}

// Register creates a staff account and returns the same shape as Login.
// Backend-reported constraint violations (duplicate username or email)
// surface as a BackendError carrying the backend's message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out)
	return out, err
}

// ValidateToken checks the currently stored access credential against the
// backend. Used at session pickup to decide whether persisted session data is
// still usable.
func (c *Client) ValidateToken(ctx context.Context) error {
	access, _ := c.currentTokens(ctx)
	if access == "" {
		return &AuthError{StatusCode: http.StatusUnauthorized, Message: "no access token"}
	}
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/validate", nil, map[string]string{"token": access}, &out); err != nil {
		return err
	}
	if !out.Valid {
		return &AuthError{StatusCode: http.StatusUnauthorized, Message: "token rejected"}
	}
	return nil
}

// Health performs the backend liveness check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/health", nil, nil, nil)
}
