package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "gymadmin/internal/domain/session"
	"gymadmin/internal/domain/staffuser"
)

const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a session by its browser token.
// PRE: token is non-empty
// POST: Returns the session or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, token string) (domain.Session, error) {
	query := "SELECT token, access_token, refresh_token, user_json, created_at, updated_at FROM session WHERE token = ?"
	row := s.db.QueryRowContext(ctx, query, token)

	var sess domain.Session
	var userJSON, createdAt, updatedAt string
	err := row.Scan(&sess.Token, &sess.AccessToken, &sess.RefreshToken, &userJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.Session{}, ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	var user staffuser.StaffUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return domain.Session{}, fmt.Errorf("corrupt user snapshot: %w", err)
	}
	sess.User = user
	sess.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	sess.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return sess, nil
}

// Save persists a session (insert or replace).
// PRE: value.Token is non-empty and credentials are populated
// POST: All three credential entries are stored together
func (s *SQLiteStore) Save(ctx context.Context, value domain.Session) error {
	userJSON, err := json.Marshal(value.User)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}

	query := `INSERT INTO session (token, access_token, refresh_token, user_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			access_token=excluded.access_token,
			refresh_token=excluded.refresh_token,
			user_json=excluded.user_json,
			updated_at=excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		value.Token,
		value.AccessToken,
		value.RefreshToken,
		string(userJSON),
		value.CreatedAt.Format(timeFormat),
		value.UpdatedAt.Format(timeFormat),
	)
	return err
}

// UpdateAccessToken replaces only the access credential, as done by the
// transparent-refresh path.
// PRE: token identifies an existing session
// POST: access_token and updated_at are replaced; other entries untouched
func (s *SQLiteStore) UpdateAccessToken(ctx context.Context, token, access string) error {
	query := "UPDATE session SET access_token = ?, updated_at = ? WHERE token = ?"
	res, err := s.db.ExecContext(ctx, query, access, time.Now().Format(timeFormat), token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session; all three persisted entries go together.
// POST: No row remains for token
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE token = ?", token)
	return err
}

// DeleteExpired removes sessions created before the cutoff.
// POST: Returns the number of sessions removed
func (s *SQLiteStore) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE created_at < ?", before.Format(timeFormat))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// TokenSource binds a store row to the API client's credential interface.
// Only the session store and the client's refresh path write through it.
type TokenSource struct {
	store Store
	token string
}

// NewTokenSource creates a TokenSource for one browser session.
func NewTokenSource(store Store, token string) *TokenSource {
	return &TokenSource{store: store, token: token}
}

// Tokens returns the persisted access and refresh credentials.
func (ts *TokenSource) Tokens(ctx context.Context) (string, string, error) {
	sess, err := ts.store.Get(ctx, ts.token)
	if err == ErrNotFound {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return sess.AccessToken, sess.RefreshToken, nil
}

// SetAccessToken persists a refreshed access credential.
func (ts *TokenSource) SetAccessToken(ctx context.Context, access string) error {
	return ts.store.UpdateAccessToken(ctx, ts.token, access)
}

// Clear removes the whole session.
func (ts *TokenSource) Clear(ctx context.Context) error {
	return ts.store.Delete(ctx, ts.token)
}
