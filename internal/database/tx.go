package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/iliyamo/social-network-api/internal/domain"
)

// WithTx runs fn inside a single transaction. The *sql.Tx handle is the
// scope: every repository call inside fn must take it explicitly, there is no
// ambient transaction. Commit happens only if fn returns nil; any error rolls
// the whole scope back, including a later step failing after an earlier one
// succeeded. The tx is resolved on every exit path, panics included, so a
// cancelled request can never leave a scope half-open holding row locks.
//
// A rollback is reported as domain.ErrTransactionFailed wrapping the step's
// error, so callers can both detect the rollback and still errors.Is the
// underlying cause.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", domain.ErrTransactionFailed, err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				log.Printf("tx: rollback after panic failed: %v", rbErr)
			}
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Printf("tx: rollback failed: %v", rbErr)
		}
		return fmt.Errorf("%w: %w", domain.ErrTransactionFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrTransactionFailed, err)
	}
	return nil
}

// TxRunner adapts a *sql.DB to the TxManager interface the services consume.
type TxRunner struct{ DB *sql.DB }

func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{DB: db} }

func (r *TxRunner) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return WithTx(ctx, r.DB, fn)
}
