package api

import (
	"errors"
	"fmt"
)

// AuthError reports an authorization failure from the backend: invalid login
// credentials, a rejected access token that could not be repaired, or an
// invalid/expired refresh token. SessionExpired marks the terminal case — the
// persisted session has been cleared and the caller must re-authenticate.
type AuthError struct {
	StatusCode     int
	Message        string
	SessionExpired bool
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.SessionExpired {
		return fmt.Sprintf("session expired: %s", e.Message)
	}
	return fmt.Sprintf("auth failed (%d): %s", e.StatusCode, e.Message)
}

// BackendError reports any other non-2xx backend response. Message carries
// the backend's human-readable message verbatim for display.
type BackendError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// NetworkError reports a request that never completed: connection failures,
// timeouts, malformed responses.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsSessionExpired reports whether err is a terminal auth failure whose
// session data has already been cleared.
func IsSessionExpired(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.SessionExpired
}

// UserMessage extracts a human-readable message for a transient notification.
// Backend messages are surfaced verbatim; network failures get a generic one.
func UserMessage(err error, fallback string) string {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	var ae *AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Could not reach the server. Please try again."
	}
	return fallback
}
