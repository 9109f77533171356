package service

import (
	"context"
	"testing"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/pkg/cryptox"

	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates an unverified user", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))

		u, err := creds.Signup(ctx, "alice@example.com", "alice", "correct-horse", "Alice")
		require.NoError(t, err)

		require.NotEmpty(t, u.ID)
		require.Equal(t, "alice@example.com", u.Email)
		require.Equal(t, "alice", u.Username)
		require.Equal(t, domain.RoleUser, u.Role)
		require.False(t, u.EmailVerified)
		require.NotEqual(t, "correct-horse", u.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("correct-horse", u.PasswordHash))
	})

	t.Run("lowercases the email", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))

		u, err := creds.Signup(ctx, "  Bob@Example.COM ", "bob", "correct-horse", "")
		require.NoError(t, err)
		require.Equal(t, "bob@example.com", u.Email)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))
		mustSignup(t, creds, "dup@example.com", "first", "correct-horse")

		_, err := creds.Signup(ctx, "dup@example.com", "second", "correct-horse", "")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate email conflicts case-insensitively", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))
		mustSignup(t, creds, "dup@example.com", "first", "correct-horse")

		_, err := creds.Signup(ctx, "DUP@EXAMPLE.COM", "second", "correct-horse", "")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))
		mustSignup(t, creds, "one@example.com", "sameuser", "correct-horse")

		_, err := creds.Signup(ctx, "two@example.com", "sameuser", "correct-horse", "")
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))

		tests := []struct {
			name     string
			email    string
			username string
			password string
		}{
			{"invalid email", "not-an-email", "gooduser", "correct-horse"},
			{"username too short", "a@example.com", "ab", "correct-horse"},
			{"username too long", "a@example.com", "abcdefghijklmnopqrstu", "correct-horse"},
			{"username with dash", "a@example.com", "bad-user", "correct-horse"},
			{"username with space", "a@example.com", "bad user", "correct-horse"},
			{"password too short", "a@example.com", "gooduser", "short"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := creds.Signup(ctx, tt.email, tt.username, tt.password, "")
				require.ErrorIs(t, err, ErrValidation)
			})
		}
	})
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("wrong current password leaves the hash unchanged", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		creds := newTestCredentials(st)
		u := mustSignup(t, creds, "p@example.com", "passuser", "original-pass")

		err := creds.UpdatePassword(ctx, u.ID, "not-the-password", "replacement-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("original-pass", stored.PasswordHash))
	})

	t.Run("correct current password rotates the hash", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		creds := newTestCredentials(st)
		u := mustSignup(t, creds, "q@example.com", "rotuser", "original-pass")

		require.NoError(t, creds.UpdatePassword(ctx, u.ID, "original-pass", "replacement-pass"))

		stored, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("replacement-pass", stored.PasswordHash))
		require.ErrorIs(t,
			cryptox.VerifyPassword("original-pass", stored.PasswordHash),
			cryptox.ErrPasswordMismatch,
		)
	})

	t.Run("new password is validated", func(t *testing.T) {
		t.Parallel()
		creds := newTestCredentials(newTestStore(t))
		u := mustSignup(t, creds, "r@example.com", "valuser", "original-pass")

		err := creds.UpdatePassword(ctx, u.ID, "original-pass", "short")
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	creds := newTestCredentials(st)
	u := mustSignup(t, creds, "profile@example.com", "profuser", "correct-horse")

	updated, err := creds.UpdateProfile(ctx, u.ID, "New Name", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "https://cdn.example.com/a.png", updated.Avatar)

	// Everything else stays put.
	require.Equal(t, u.Email, updated.Email)
	require.Equal(t, u.Username, updated.Username)
	require.Equal(t, u.PasswordHash, updated.PasswordHash)
}
