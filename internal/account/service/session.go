package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/metrics"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/cryptox"
	"github.com/inkwell-hq/inkwell/pkg/idx"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

// SessionService mints and validates session tokens. Sessions are stateless
// EdDSA JWTs; nothing is stored server-side, so expiry is the only
// revocation.
type SessionService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	Audience []string
	TTL      time.Duration
	Metrics  metrics.Recorder
}

// Login checks an email-or-username identifier plus password and returns a
// signed session. Every failure mode collapses into ErrInvalidCredentials so
// the response never reveals whether the account exists.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	if strings.Contains(identifier, "@") {
		identifier = NormalizeEmail(identifier)
	}

	u, err := s.Store.Users().GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recorder().RecordLogin(false)
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.recorder().RecordLogin(false)
			slogx.FromContext(ctx).Info("login failed", "user_id", u.ID)
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	ttl := s.ttl()
	claims := jwtx.NewSessionClaims(
		u.ID,
		idx.New().String(),
		string(u.Role),
		u.Username,
		u.Name,
		u.Avatar,
		u.EmailVerified,
		ttl,
		s.Issuer,
		s.Audience,
		time.Now().UTC(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Session{}, err
	}

	s.recorder().RecordLogin(true)
	slogx.FromContext(ctx).Info("login succeeded", "user_id", u.ID, "sid", claims.SID)

	return domain.Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(ttl.Seconds()),
		User:      domain.PublicUser(u),
	}, nil
}

// Validate parses and verifies a session token, failing closed on any
// problem.
func (s *SessionService) Validate(ctx context.Context, token string) (jwtx.SessionIdentity, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.SessionIdentity{}, ErrNotAuthenticated
	}
	return claims.Identity(), nil
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

func (s *SessionService) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}
