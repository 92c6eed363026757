package repository

import (
	"context"
	"database/sql"
	"errors"
)

// maxTxnAttempts bounds how often a conflicting transaction is re-run
// before the conflict surfaces to the caller.
const maxTxnAttempts = 3

// withTx runs fn inside a database transaction, committing if fn succeeds
// and rolling back otherwise. fn must perform all reads and writes through
// the supplied transaction so they commit or fail as a unit.
func (r *repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	err = fn(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// retryOnConflict re-runs fn while it reports an edit conflict, up to
// attempts times. Each run re-reads current state, so a conflicting writer
// never causes a computation over a stale aggregate to commit. The final
// conflict, if any, is returned to the caller.
func retryOnConflict(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, ErrEditConflict) {
			return err
		}
	}
	return err
}
