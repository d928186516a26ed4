package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gymadmin/internal/domain/staffuser"
)

// MaxAge is how long a browser session may live regardless of token state.
const MaxAge = 24 * time.Hour

// Session binds a browser session token to the authenticated identity: the
// staff user snapshot plus the access and refresh credentials issued by the
// backend. The three credential entries live and die together — a session is
// either fully populated or gone.
type Session struct {
	Token        string // opaque browser cookie value
	AccessToken  string
	RefreshToken string
	User         staffuser.StaffUser
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the session has outlived MaxAge.
// INVARIANT: Session fields are not mutated
func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > MaxAge
}

// AccessTokenExpiry peeks at the exp claim of the access credential without
// verifying the signature. The console never trusts the claim for
// authorization — the backend validates every call — it only uses it to
// refresh up front instead of eating a guaranteed 401.
// POST: Returns the expiry and true, or zero time and false if the token is
// not a parseable JWT or carries no exp claim
func AccessTokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// AccessTokenStale reports whether the access credential is expired (or
// expires within the skew window) according to its own exp claim. Unparseable
// tokens are never reported stale; the 401 path handles those.
func AccessTokenStale(token string, now time.Time, skew time.Duration) bool {
	exp, ok := AccessTokenExpiry(token)
	if !ok {
		return false
	}
	return !now.Add(skew).Before(exp)
}
