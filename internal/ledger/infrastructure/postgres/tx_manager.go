package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/database"
)

// LedgerTxManager opens a database transaction per unit of work. A positive
// lockTimeout is applied with SET LOCAL semantics, so it only bounds row lock
// waits of that transaction.
type LedgerTxManager struct {
	txManager   database.TxManager
	lockTimeout time.Duration
}

func NewLedgerTxManager(txManager database.TxManager, lockTimeout time.Duration) *LedgerTxManager {
	return &LedgerTxManager{
		txManager:   txManager,
		lockTimeout: lockTimeout,
	}
}

func (tm *LedgerTxManager) WithinTransaction(ctx context.Context, txFn domain.TxFunc) error {
	var fnErr error

	err := tm.txManager.WithinTransaction(ctx, func(ctx context.Context, executor database.QueryExecuter) error {
		if tm.lockTimeout > 0 {
			_, err := executor.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeoutSetting(tm.lockTimeout))
			if err != nil {
				fnErr = mapStoreError("set lock timeout", err)
				return fnErr
			}
		}

		fnErr = txFn(ctx, newUnitOfWork(executor))
		return fnErr
	})
	if err == nil {
		return nil
	}

	// errors raised by txFn are already domain errors
	if fnErr != nil {
		return fnErr
	}

	return mapStoreError("transaction", err)
}

func lockTimeoutSetting(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}

	return fmt.Sprintf("%dms", ms)
}

var (
	_ domain.ClientRepository  = (*ClientsRepository)(nil)
	_ domain.AccountRepository = (*AccountsRepository)(nil)
	_ domain.TxManager         = (*LedgerTxManager)(nil)
	_ domain.UnitOfWork        = (*unitOfWork)(nil)
)
