package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for any login failure, whether the
	// account doesn't exist or the password is wrong. Callers never learn
	// which.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrValidation wraps input validation failures. The wrapped message is
	// safe to surface to the caller.
	ErrValidation = errors.New("invalid_request")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCode covers both unknown and superseded codes. Consumers
	// can't distinguish a code that never existed from one that was replaced.
	ErrInvalidCode = errors.New("invalid or unknown code")
	ErrCodeExpired = errors.New("code has expired")

	ErrAlreadyVerified = errors.New("email is already verified")

	ErrNotAuthenticated = errors.New("not_authenticated")
)

// RateLimitError reports a resend attempt inside the cooldown window.
// RetryAfter is whole seconds until a new code may be requested.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry in %ds", e.RetryAfter)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
