package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type AccountRepository interface {
	SaveAccount(ctx context.Context, account Account) (Account, error)
	ListAccountsByClient(ctx context.Context, clientID int64) ([]Account, error)
}

// Account balances only change through a transfer. ID, ClientID, Currency
// and Number are fixed once the account is saved.
type Account struct {
	ID       int64           `json:"id"`
	ClientID int64           `json:"clientId"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Number   string          `json:"accountNumber"`
}

// ParseCurrency accepts an ISO-4217 code in any case and returns it upper-cased.
func ParseCurrency(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", &ValidationError{Msg: "unknown currency code " + code}
	}

	return unit.String(), nil
}
