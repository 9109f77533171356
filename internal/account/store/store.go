package store

import (
	"context"
	"errors"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres when the platform outgrows it) implement this. Sub-repositories
// keep concerns tidy and make it obvious which tables an operation touches.
type Store interface {
	Users() Users
	OTPTokens() OTPTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos, plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by exact (lowercased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByIdentifier looks up by exact match on email OR username, for
	// login with either.
	GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists when the email or username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates name and avatar and bumps updated_at.
	UpdateProfile(ctx context.Context, userID, name, avatar string) error

	// UpdatePasswordHash replaces the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// MarkEmailVerified flips email_verified on and bumps updated_at.
	MarkEmailVerified(ctx context.Context, userID string) error
}

type OTPTokens interface {
	// UpsertToken writes the one active token for (user, purpose) in a
	// single statement, replacing any previous token. The atomicity here is
	// what prevents two concurrent resends from leaving two valid codes.
	UpsertToken(ctx context.Context, t domain.OTPToken) error

	// GetTokenForUser returns the active token row for (user, purpose),
	// expired or not. Used for resend throttling.
	GetTokenForUser(ctx context.Context, userID string, purpose domain.TokenPurpose) (domain.OTPToken, error)

	// GetTokenByHash fetches a token by its fingerprint and purpose when
	// consuming a code.
	GetTokenByHash(ctx context.Context, hash string, purpose domain.TokenPurpose) (domain.OTPToken, error)

	// DeleteToken removes a token row by id. Deletion is what makes codes
	// single-use; a second consume finds nothing.
	DeleteToken(ctx context.Context, id string) error

	// DeleteExpiredTokens is housekeeping.
	DeleteExpiredTokens(ctx context.Context) error
}
