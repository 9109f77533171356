package domain

import "time"

// TokenPurpose distinguishes the two one-time-code journeys sharing the same
// storage shape.
type TokenPurpose string

const (
	PurposeEmailVerify   TokenPurpose = "EMAIL_VERIFY"
	PurposePasswordReset TokenPurpose = "PASSWORD_RESET"
)

// OTPToken is a one-time code record. Only the SHA-256 fingerprint of the
// code is stored; the raw value is emailed to the user and never persisted.
// One row exists per (user, purpose): issuing a new code replaces the old
// row, so superseded codes stop validating immediately, and CreatedAt is the
// timestamp the resend throttle is computed from.
type OTPToken struct {
	ID        string
	UserID    string
	Purpose   TokenPurpose
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (t OTPToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
