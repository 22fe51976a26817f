package application

import (
	"context"
	"errors"
	"strings"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
	"github.com/shopspring/decimal"
)

type LedgerService struct {
	clients   domain.ClientRepository
	accounts  domain.AccountRepository
	txManager domain.TxManager
	logger    logging.Logger
}

func NewLedgerService(
	clients domain.ClientRepository,
	accounts domain.AccountRepository,
	txManager domain.TxManager,
	logger logging.Logger,
) *LedgerService {
	return &LedgerService{
		clients:   clients,
		accounts:  accounts,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *LedgerService) CreateClient(ctx context.Context, name string) (domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Client{}, &domain.ValidationError{Msg: "client name must not be empty"}
	}

	return s.clients.SaveClient(ctx, domain.Client{Name: name})
}

func (s *LedgerService) CreateAccount(
	ctx context.Context,
	clientID int64,
	currency string,
	initialBalance decimal.Decimal,
	accountNumber string,
) (domain.Account, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return domain.Account{}, &domain.ValidationError{Msg: "account number must not be empty"}
	}

	code, err := domain.ParseCurrency(currency)
	if err != nil {
		return domain.Account{}, err
	}

	if initialBalance.IsNegative() {
		return domain.Account{}, &domain.ValidationError{Msg: "initial balance must not be negative"}
	}

	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return domain.Account{}, err
	}

	return s.accounts.SaveAccount(ctx, domain.Account{
		ClientID: client.ID,
		Currency: code,
		Balance:  initialBalance,
		Number:   accountNumber,
	})
}

func (s *LedgerService) ListAccounts(ctx context.Context, clientID int64) ([]domain.Account, error) {
	exists, err := s.clients.ClientExists(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, &domain.ClientNotFoundError{ID: clientID}
	}

	return s.accounts.ListAccountsByClient(ctx, clientID)
}

// Transfer moves req.Amount between two accounts in one unit of work. Checks
// run in a fixed order and the first failing one is returned; nothing is
// written unless all of them pass.
func (s *LedgerService) Transfer(ctx context.Context, req domain.TransferRequest) error {
	if req.FromNumber == req.ToNumber {
		return &domain.InvalidOperationError{Msg: "cannot transfer to the same account"}
	}

	if !req.Amount.IsPositive() {
		return &domain.ValidationError{Msg: "transfer amount must be positive"}
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, uow domain.UnitOfWork) error {
		from, to, err := lockTransferAccounts(ctx, uow, req)
		if err != nil {
			return err
		}

		if from.Currency != to.Currency {
			return &domain.CurrencyMismatchError{From: from.Currency, To: to.Currency}
		}

		if from.ClientID != req.CallerClientID {
			return &domain.AuthorizationError{Msg: "cannot transfer from another client's account"}
		}

		if from.Balance.LessThan(req.Amount) {
			return &domain.InsufficientFundsError{Number: from.Number}
		}

		from.Balance = from.Balance.Sub(req.Amount)
		to.Balance = to.Balance.Add(req.Amount)

		return uow.SaveAccounts(ctx, from, to)
	})
	if err != nil {
		return err
	}

	s.logger.Info("transfer completed",
		"from", req.FromNumber,
		"to", req.ToNumber,
		"amount", req.Amount.String(),
		"client_id", req.CallerClientID,
	)

	return nil
}

// lockTransferAccounts locks both accounts in canonical order, so two
// transfers over the same pair in opposite directions queue up instead of
// deadlocking. A missing account is reported only after both lock attempts,
// source first.
func lockTransferAccounts(ctx context.Context, uow domain.UnitOfWork, req domain.TransferRequest) (domain.Account, domain.Account, error) {
	first, second := req.LockOrder()
	locked := make(map[string]domain.Account, 2)

	for _, number := range []string{first, second} {
		account, err := uow.LockAccountByNumber(ctx, number)
		if err != nil {
			if errors.Is(err, &domain.AccountNotFoundError{}) {
				continue
			}

			return domain.Account{}, domain.Account{}, err
		}

		locked[number] = account
	}

	from, ok := locked[req.FromNumber]
	if !ok {
		return domain.Account{}, domain.Account{}, &domain.AccountNotFoundError{Number: req.FromNumber}
	}

	to, ok := locked[req.ToNumber]
	if !ok {
		return domain.Account{}, domain.Account{}, &domain.AccountNotFoundError{Number: req.ToNumber}
	}

	return from, to, nil
}
