package sqlite

import (
	"context"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
)

type otpTokensRepo struct {
	db dbtx
}

const otpColumns = `id, user_id, purpose, token_hash, expires_at, created_at`

func scanOTPToken(row interface{ Scan(dest ...any) error }) (domain.OTPToken, error) {
	var t domain.OTPToken
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Purpose,
		&t.TokenHash,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	return t, err
}

// UpsertToken relies on the UNIQUE(user_id, purpose) constraint so the
// replace is a single atomic statement.
func (r *otpTokensRepo) UpsertToken(ctx context.Context, t domain.OTPToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_tokens (id, user_id, purpose, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, purpose) DO UPDATE SET
			id = excluded.id,
			token_hash = excluded.token_hash,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
	`,
		t.ID,
		t.UserID,
		t.Purpose,
		t.TokenHash,
		t.ExpiresAt,
		t.CreatedAt,
	)
	return err
}

func (r *otpTokensRepo) GetTokenForUser(ctx context.Context, userID string, purpose domain.TokenPurpose) (domain.OTPToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+otpColumns+`
		FROM otp_tokens
		WHERE user_id = ? AND purpose = ?
	`, userID, purpose)

	t, err := scanOTPToken(row)
	return t, mapNotFound(err)
}

func (r *otpTokensRepo) GetTokenByHash(ctx context.Context, hash string, purpose domain.TokenPurpose) (domain.OTPToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+otpColumns+`
		FROM otp_tokens
		WHERE token_hash = ? AND purpose = ?
	`, hash, purpose)

	t, err := scanOTPToken(row)
	return t, mapNotFound(err)
}

func (r *otpTokensRepo) DeleteToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM otp_tokens
		WHERE id = ?
	`, id)
	return err
}

func (r *otpTokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM otp_tokens
		WHERE expires_at < ?
	`, time.Now().UTC())
	return err
}
