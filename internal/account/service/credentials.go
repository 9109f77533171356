package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/metrics"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/cryptox"
	"github.com/inkwell-hq/inkwell/pkg/idx"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

const (
	minPasswordLen = 8
	maxPasswordLen = 128

	maxNameLen   = 100
	maxAvatarLen = 500
)

// CredentialService owns the user record: signup, profile mutation, and
// password changes.
type CredentialService struct {
	Store   store.Store
	Metrics metrics.Recorder
}

// Signup creates a new unverified account. Email is normalized to lowercase
// before storage so lookups stay case-insensitive.
func (s *CredentialService) Signup(ctx context.Context, email, username, password, name string) (domain.User, error) {
	email = NormalizeEmail(email)

	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, validationErr("invalid email address")
	}
	if !usernameRe.MatchString(username) {
		return domain.User{}, validationErr("username must be 3-20 characters of letters, digits, or underscore")
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}
	if len(name) > maxNameLen {
		return domain.User{}, validationErr("name must be at most %d characters", maxNameLen)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		Username:      username,
		PasswordHash:  hash,
		Name:          name,
		Role:          domain.RoleUser,
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, s.conflictField(ctx, email)
		}
		return domain.User{}, err
	}

	s.recorder().RecordSignup()
	slogx.FromContext(ctx).Info("user created", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// conflictField distinguishes which unique column collided so the caller can
// tell the user what to change. The row was never written, so an extra read
// here is fine.
func (s *CredentialService) conflictField(ctx context.Context, email string) error {
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// GetUser fetches a user by id.
func (s *CredentialService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdateProfile replaces the display name and avatar URL.
func (s *CredentialService) UpdateProfile(ctx context.Context, userID, name, avatar string) (domain.User, error) {
	if len(name) > maxNameLen {
		return domain.User{}, validationErr("name must be at most %d characters", maxNameLen)
	}
	if len(avatar) > maxAvatarLen {
		return domain.User{}, validationErr("avatar URL must be at most %d characters", maxAvatarLen)
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, name, avatar); err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, userID)
}

// UpdatePassword changes the password for an authenticated user. The current
// password must verify first; a mismatch leaves the stored hash untouched.
func (s *CredentialService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

// SetPassword replaces the password without checking the old one. Only the
// reset flow calls this, after a valid reset code has been consumed.
func (s *CredentialService) SetPassword(ctx context.Context, userID, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
}

func (s *CredentialService) recorder() metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Nop{}
	}
	return s.Metrics
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return validationErr("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return validationErr("password must be at most %d characters", maxPasswordLen)
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. All email input
// crosses through here before touching the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
