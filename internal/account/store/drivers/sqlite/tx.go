package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell-hq/inkwell/internal/account/store"
)

// txStore is a Store bound to an open transaction. Repo accessors hand back
// repos running on the *sql.Tx instead of the pool.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore { return &txStore{tx: tx} }

func (t *txStore) Users() store.Users         { return &usersRepo{db: t.tx} }
func (t *txStore) OTPTokens() store.OTPTokens { return &otpTokensRepo{db: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: cannot migrate inside a transaction")
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Already inside a transaction; just run fn against it.
	return fn(t)
}

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }
