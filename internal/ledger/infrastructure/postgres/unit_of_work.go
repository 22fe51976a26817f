package postgres

import (
	"context"
	"errors"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// unitOfWork runs inside an open transaction; row locks taken here are held
// until that transaction ends.
type unitOfWork struct {
	executor database.QueryExecuter
}

func newUnitOfWork(executor database.QueryExecuter) *unitOfWork {
	return &unitOfWork{
		executor: executor,
	}
}

func (u *unitOfWork) LockAccountByNumber(ctx context.Context, number string) (domain.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1 FOR UPDATE`

	account, err := scanAccount(u.executor.QueryRow(ctx, sql, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, &domain.AccountNotFoundError{Number: number}
		}

		return domain.Account{}, mapStoreError("lock account", err)
	}

	return account, nil
}

func (u *unitOfWork) SaveAccounts(ctx context.Context, accounts ...domain.Account) error {
	sql := `UPDATE accounts SET balance = $1::numeric WHERE id = $2`

	for _, account := range accounts {
		tag, err := u.executor.Exec(ctx, sql, account.Balance.String(), account.ID)
		if err != nil {
			return mapStoreError("save accounts", err)
		} else if tag.RowsAffected() == 0 {
			return &domain.AccountNotFoundError{Number: account.Number}
		}
	}

	return nil
}
