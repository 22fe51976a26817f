package postgres

import (
	"context"
	"fmt"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/database"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Balances travel as text in both directions so NUMERIC precision is kept
// exactly as decimal.Decimal holds it.
const accountColumns = `id, client_id, currency, balance::text, account_number`

type AccountsRepository struct {
	querier database.Querier
}

func NewAccountsRepository(querier database.Querier) *AccountsRepository {
	return &AccountsRepository{
		querier: querier,
	}
}

func (ar *AccountsRepository) SaveAccount(ctx context.Context, account domain.Account) (domain.Account, error) {
	sql := `INSERT INTO accounts (client_id, currency, balance, account_number)
VALUES ($1, $2, $3::numeric, $4)
RETURNING id`

	err := ar.querier.QueryRow(ctx, sql, account.ClientID, account.Currency, account.Balance.String(), account.Number).
		Scan(&account.ID)
	if err != nil {
		switch pgErrorCode(err) {
		case pgerrcode.UniqueViolation:
			return domain.Account{}, &domain.AccountExistsError{Number: account.Number}
		case pgerrcode.ForeignKeyViolation:
			return domain.Account{}, &domain.ClientNotFoundError{ID: account.ClientID}
		}

		return domain.Account{}, mapStoreError("save account", err)
	}

	return account, nil
}

func (ar *AccountsRepository) ListAccountsByClient(ctx context.Context, clientID int64) ([]domain.Account, error) {
	sql := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY id`

	rows, err := ar.querier.Query(ctx, sql, clientID)
	if err != nil {
		return nil, mapStoreError("list accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, mapStoreError("list accounts", err)
		}

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, mapStoreError("list accounts", err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		account domain.Account
		balance string
	)

	err := row.Scan(&account.ID, &account.ClientID, &account.Currency, &balance, &account.Number)
	if err != nil {
		return domain.Account{}, err
	}

	account.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse balance of account %s: %w", account.Number, err)
	}

	return account, nil
}
