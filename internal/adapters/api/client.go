package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gymadmin/internal/domain/session"
)

// DefaultTimeout bounds every backend call; expiry surfaces as a NetworkError.
const DefaultTimeout = 15 * time.Second

// expirySkew is how close to its exp claim an access token may get before the
// client refreshes it up front rather than waiting for the 401.
const expirySkew = 30 * time.Second

// TokenSource supplies the persisted credentials for a browser session and
// accepts writes from the transparent-refresh path. Only the session store
// and this client ever write through it.
type TokenSource interface {
	// Tokens returns the current access and refresh credentials. Both empty
	// means no session exists.
	Tokens(ctx context.Context) (access, refresh string, err error)
	// SetAccessToken persists a replacement access credential after a
	// successful refresh.
	SetAccessToken(ctx context.Context, access string) error
	// Clear removes all persisted session data together.
	Clear(ctx context.Context) error
}

// Client is the single point of outbound communication with the backend REST
// service. It attaches the bearer credential to every request and repairs an
// expired access token transparently: one refresh, one retry, never a loop.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	now        func() time.Time
}

// New creates a Client for the given backend base URL. tokens may be nil for
// unauthenticated use (login, register, health).
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		now:        time.Now,
	}
}

// WithHTTPClient overrides the underlying transport. Used by tests and by
// callers that need a different timeout.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// do performs one backend call with bearer injection and the single-shot
// refresh-and-retry protocol.
//
// PRE: path starts with "/"; out is nil or a pointer
// POST: On success out is populated. On 401 with a refresh credential the
// original request was re-issued exactly once after a successful refresh;
// a failed or impossible refresh cleared the session and returned a terminal
// AuthError. A second 401 on the retry surfaces as a plain AuthError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	access, refresh := c.currentTokens(ctx)

	// Proactive repair: a token that is expired by its own exp claim will be
	// rejected anyway, so refresh before spending the round trip.
	if access != "" && refresh != "" && session.AccessTokenStale(access, c.now(), expirySkew) {
		newAccess, err := c.refreshAccessToken(ctx, refresh)
		if err == nil {
			access = newAccess
		}
		// On failure fall through with the stale token; the 401 path decides.
	}

	resp, respBody, err := c.send(ctx, method, path, query, body, access)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && (access != "" || refresh != "") {
		if refresh == "" {
			c.clearSession(ctx)
			return &AuthError{StatusCode: resp.StatusCode, Message: "session expired", SessionExpired: true}
		}
		newAccess, err := c.refreshAccessToken(ctx, refresh)
		if err != nil {
			c.clearSession(ctx)
			return &AuthError{StatusCode: resp.StatusCode, Message: "session expired", SessionExpired: true}
		}
		slog.Info("api_event", "event", "token_refreshed", "method", method, "path", path)
		resp, respBody, err = c.send(ctx, method, path, query, body, newAccess)
		if err != nil {
			return &NetworkError{Err: err}
		}
		// Single-shot: a second 401 is surfaced, not retried again.
	}

	return decodeResponse(resp, respBody, out)
}

// send builds and executes one HTTP request. The response body is fully read
// so the retry path never reuses a half-consumed stream.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, access string) (*http.Response, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, respBody, nil
}

// refreshAccessToken exchanges the refresh credential for a new access
// credential and persists it through the token source.
func (c *Client) refreshAccessToken(ctx context.Context, refresh string) (string, error) {
	payload := map[string]string{"refreshToken": refresh}
	resp, respBody, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, payload, "")
	if err != nil {
		return "", &NetworkError{Err: err}
	}

	var auth AuthResponse
	if err := decodeResponse(resp, respBody, &auth); err != nil {
		return "", err
	}
	if auth.AccessToken == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Message: "refresh returned no access token"}
	}
	if c.tokens != nil {
		if err := c.tokens.SetAccessToken(ctx, auth.AccessToken); err != nil {
			return "", err
		}
	}
	return auth.AccessToken, nil
}

func (c *Client) currentTokens(ctx context.Context) (string, string) {
	if c.tokens == nil {
		return "", ""
	}
	access, refresh, err := c.tokens.Tokens(ctx)
	if err != nil {
		slog.Error("api_event", "event", "token_load_failed", "error", err.Error())
		return "", ""
	}
	return access, refresh
}

func (c *Client) clearSession(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Clear(ctx); err != nil {
		slog.Error("api_event", "event", "session_clear_failed", "error", err.Error())
		return
	}
	slog.Info("api_event", "event", "session_cleared")
}

// decodeResponse maps the status code onto the error taxonomy and unmarshals
// a successful body into out.
func decodeResponse(resp *http.Response, body []byte, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: backendMessage(body, "not authorized")}
	default:
		return &BackendError{StatusCode: resp.StatusCode, Message: backendMessage(body, http.StatusText(resp.StatusCode))}
	}
}

// backendMessage pulls the message field out of an error body, falling back
// when the body is empty or not the expected shape.
func backendMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return fallback
}
