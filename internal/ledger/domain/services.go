package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type LedgerService interface {
	CreateClient(ctx context.Context, name string) (Client, error)
	CreateAccount(ctx context.Context, clientID int64, currency string, initialBalance decimal.Decimal, accountNumber string) (Account, error)
	ListAccounts(ctx context.Context, clientID int64) ([]Account, error)
	Transfer(ctx context.Context, req TransferRequest) error
}
