package session

import (
	"context"
	"errors"
	"time"

	domain "gymadmin/internal/domain/session"
)

// ErrNotFound is returned when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// Store persists browser sessions. Each row carries the access token, the
// refresh token, and the user snapshot. The three are always written and
// cleared together.
type Store interface {
	Get(ctx context.Context, token string) (domain.Session, error)
	Save(ctx context.Context, value domain.Session) error
	UpdateAccessToken(ctx context.Context, token, access string) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
