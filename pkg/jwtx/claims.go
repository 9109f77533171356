package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens. Matches the
// 30-day browser session the web frontend expects.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Claims are the session-token claims shared across Inkwell services. Keep
// changes additive so older verifiers keep working.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session ID minted at login. Stable for the session's
	// lifetime; useful for log correlation.
	SID string `json:"sid,omitempty"`

	// Role is the user's role at login time ("user", "admin").
	Role string `json:"role,omitempty"`

	// Username is the unique handle of the authenticated user.
	Username string `json:"username,omitempty"`

	// Name is the optional display name.
	Name string `json:"name,omitempty"`

	// Avatar is the optional avatar URL.
	Avatar string `json:"avatar,omitempty"`

	// EmailVerified is a snapshot of the verification flag at issue time.
	// The route guard uses it to steer unverified users to the verify page.
	EmailVerified bool `json:"email_verified"`
}

// SessionIdentity is the subset of claims services hand to application code
// as "the current user".
type SessionIdentity struct {
	UserID        string
	SID           string
	Role          string
	Username      string
	Name          string
	Avatar        string
	EmailVerified bool
}

// Identity extracts the identity fields from validated claims.
func (c *Claims) Identity() SessionIdentity {
	return SessionIdentity{
		UserID:        c.Subject,
		SID:           c.SID,
		Role:          c.Role,
		Username:      c.Username,
		Name:          c.Name,
		Avatar:        c.Avatar,
		EmailVerified: c.EmailVerified,
	}
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(
	subject, sid string,
	role, username, name, avatar string,
	emailVerified bool,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:           sid,
		Role:          role,
		Username:      username,
		Name:          name,
		Avatar:        avatar,
		EmailVerified: emailVerified,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer matches the expected value. Empty expected
// means "don't care".
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before
// it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
