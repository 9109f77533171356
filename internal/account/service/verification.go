package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/mailer"
	"github.com/inkwell-hq/inkwell/internal/account/metrics"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

// VerificationService orchestrates the email-verification and password-reset
// journeys: issue a code, email it, consume it, apply the terminal action.
type VerificationService struct {
	Store       store.Store
	OTP         *OTPService
	Credentials *CredentialService
	Mailer      mailer.Mailer
	Metrics     metrics.Recorder
}

// RequestEmailVerification issues and emails a verification code for an
// authenticated user. Already-verified accounts are refused.
func (s *VerificationService) RequestEmailVerification(ctx context.Context, userID string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := s.OTP.Issue(ctx, u.ID, domain.PurposeEmailVerify)
	if err != nil {
		return err
	}

	subject, body := mailer.VerificationEmail(code, int(s.OTP.ttl().Minutes()))
	return s.deliver(ctx, u.Email, subject, body)
}

// VerifyEmail consumes a verification code and flips email_verified. Returns
// the updated user.
func (s *VerificationService) VerifyEmail(ctx context.Context, code string) (domain.User, error) {
	userID, err := s.OTP.Consume(ctx, code, domain.PurposeEmailVerify)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().MarkEmailVerified(ctx, userID); err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("email verified", "user_id", userID)
	return s.Store.Users().GetUserByID(ctx, userID)
}

// RequestPasswordReset issues and emails a reset code for the account behind
// the given email. Unknown addresses succeed silently so the endpoint can't
// be used to probe which emails have accounts.
func (s *VerificationService) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := s.OTP.Issue(ctx, u.ID, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	subject, body := mailer.PasswordResetEmail(code, int(s.OTP.ttl().Minutes()))
	return s.deliver(ctx, u.Email, subject, body)
}

// ResetPassword consumes a reset code and replaces the password.
func (s *VerificationService) ResetPassword(ctx context.Context, code, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.OTP.Consume(ctx, code, domain.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := s.Credentials.SetPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset completed", "user_id", userID)
	return nil
}

// deliver sends the mail and records the outcome. A delivery failure is a
// recoverable error for the caller; the issued code stays valid, so a retry
// inside the resend window still gets rate limited.
func (s *VerificationService) deliver(ctx context.Context, to, subject, body string) error {
	if err := s.Mailer.Send(ctx, to, subject, body); err != nil {
		s.recorder().RecordMailSent(false)
		slogx.FromContext(ctx).Error("mail delivery failed", "error", err)
		return fmt.Errorf("sending email: %w", err)
	}
	s.recorder().RecordMailSent(true)
	return nil
}

func (s *VerificationService) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}
