package service

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/metrics"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/cryptox"
	"github.com/inkwell-hq/inkwell/pkg/idx"
)

const (
	// DefaultOTPTTL is how long a one-time code stays valid.
	DefaultOTPTTL = 15 * time.Minute

	// DefaultResendInterval is the minimum gap between two codes for the
	// same (user, purpose).
	DefaultResendInterval = 60 * time.Second

	// DefaultOTPDigits matches the 6-box code entry in the UI.
	DefaultOTPDigits = 6
)

// OTPService issues and consumes one-time codes. Only the SHA-256
// fingerprint of a code is ever stored; the raw value goes out by email and
// is gone once sent.
type OTPService struct {
	Store          store.Store
	TTL            time.Duration
	ResendInterval time.Duration
	Digits         int
	Metrics        metrics.Recorder
}

// Issue generates a fresh code for (user, purpose), replacing any previous
// one. Returns the raw code for delivery. Fails with *RateLimitError while
// the previous code is inside the resend window.
func (s *OTPService) Issue(ctx context.Context, userID string, purpose domain.TokenPurpose) (string, error) {
	now := time.Now().UTC()

	code, err := cryptox.GenerateOTP(s.digits())
	if err != nil {
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		prev, err := tx.OTPTokens().GetTokenForUser(ctx, userID, purpose)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err == nil {
			if wait := s.resendInterval() - now.Sub(prev.CreatedAt); wait > 0 {
				return &RateLimitError{RetryAfter: int(wait.Seconds()) + 1}
			}
		}

		// Upsert on (user_id, purpose) so the old code stops validating
		// the instant the new one exists.
		return tx.OTPTokens().UpsertToken(ctx, domain.OTPToken{
			ID:        idx.New().String(),
			UserID:    userID,
			Purpose:   purpose,
			TokenHash: cryptox.FingerprintToken(code),
			ExpiresAt: now.Add(s.ttl()),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", err
	}

	s.recorder().RecordOTPIssued(string(purpose))
	return code, nil
}

// Consume validates a raw code for the given purpose and burns it. On
// success the token row is deleted, so a second attempt with the same code
// fails with ErrInvalidCode. Expired codes are deleted on sight and fail
// with ErrCodeExpired.
func (s *OTPService) Consume(ctx context.Context, code string, purpose domain.TokenPurpose) (string, error) {
	hash := cryptox.FingerprintToken(code)
	now := time.Now().UTC()

	var userID string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := tx.OTPTokens().GetTokenByHash(ctx, hash, purpose)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		if t.Expired(now) {
			// No point keeping a dead row around.
			if err := tx.OTPTokens().DeleteToken(ctx, t.ID); err != nil {
				return err
			}
			return ErrCodeExpired
		}

		if err := tx.OTPTokens().DeleteToken(ctx, t.ID); err != nil {
			return err
		}
		userID = t.UserID
		return nil
	})
	if err != nil {
		s.recorder().RecordOTPConsumed(string(purpose), false)
		return "", err
	}

	s.recorder().RecordOTPConsumed(string(purpose), true)
	return userID, nil
}

func (s *OTPService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultOTPTTL
	}
	return s.TTL
}

func (s *OTPService) resendInterval() time.Duration {
	if s.ResendInterval <= 0 {
		return DefaultResendInterval
	}
	return s.ResendInterval
}

func (s *OTPService) digits() int {
	if s.Digits <= 0 {
		return DefaultOTPDigits
	}
	return s.Digits
}

func (s *OTPService) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}
