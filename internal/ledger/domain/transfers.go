package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// UnitOfWork is the view of the store inside one transaction. Row locks taken
// by LockAccountByNumber are held until the surrounding WithinTransaction returns.
type UnitOfWork interface {
	LockAccountByNumber(ctx context.Context, number string) (Account, error)
	SaveAccounts(ctx context.Context, accounts ...Account) error
}

type TxFunc func(ctx context.Context, uow UnitOfWork) error

// TxManager commits the unit of work when txFn returns nil and rolls it back otherwise.
type TxManager interface {
	WithinTransaction(ctx context.Context, txFn TxFunc) error
}

type TransferRequest struct {
	CallerClientID int64
	FromNumber     string
	ToNumber       string
	Amount         decimal.Decimal
}

// LockOrder returns the two account numbers in the order their locks must be
// taken, independent of transfer direction.
func (r TransferRequest) LockOrder() (first, second string) {
	if r.FromNumber < r.ToNumber {
		return r.FromNumber, r.ToNumber
	}
	return r.ToNumber, r.FromNumber
}
