package domain

import "fmt"

//region ValidationError

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

//endregion

//region NotFoundError

// NotFoundError is the kind shared by ClientNotFoundError and AccountNotFoundError.
// Match either with errors.Is(err, &NotFoundError{}).
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

//endregion

//region ClientNotFoundError

type ClientNotFoundError struct {
	ID int64
}

func (e *ClientNotFoundError) Error() string {
	return fmt.Sprintf("client %d not found", e.ID)
}

func (e *ClientNotFoundError) Is(target error) bool {
	switch target.(type) {
	case *ClientNotFoundError, *NotFoundError:
		return true
	}
	return false
}

//endregion

//region AccountNotFoundError

type AccountNotFoundError struct {
	Number string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.Number)
}

func (e *AccountNotFoundError) Is(target error) bool {
	switch target.(type) {
	case *AccountNotFoundError, *NotFoundError:
		return true
	}
	return false
}

//endregion

//region AccountExistsError

type AccountExistsError struct {
	Number string
}

func (e *AccountExistsError) Error() string {
	return fmt.Sprintf("account %s already exists", e.Number)
}

func (e *AccountExistsError) Is(target error) bool {
	_, ok := target.(*AccountExistsError)
	return ok
}

//endregion

//region InvalidOperationError

type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return e.Msg
}

func (e *InvalidOperationError) Is(target error) bool {
	_, ok := target.(*InvalidOperationError)
	return ok
}

//endregion

//region CurrencyMismatchError

type CurrencyMismatchError struct {
	From string
	To   string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.From, e.To)
}

func (e *CurrencyMismatchError) Is(target error) bool {
	_, ok := target.(*CurrencyMismatchError)
	return ok
}

//endregion

//region AuthorizationError

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	return e.Msg
}

func (e *AuthorizationError) Is(target error) bool {
	_, ok := target.(*AuthorizationError)
	return ok
}

//endregion

//region InsufficientFundsError

type InsufficientFundsError struct {
	Number string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s", e.Number)
}

func (e *InsufficientFundsError) Is(target error) bool {
	_, ok := target.(*InsufficientFundsError)
	return ok
}

//endregion

//region ConcurrencyError

// ConcurrencyError reports a row lock wait that ended without the lock.
// Err keeps the store-level cause.
type ConcurrencyError struct {
	Msg string
	Err error
}

func (e *ConcurrencyError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *ConcurrencyError) Unwrap() error {
	return e.Err
}

func (e *ConcurrencyError) Is(target error) bool {
	_, ok := target.(*ConcurrencyError)
	return ok
}

//endregion

//region StoreError

// StoreError wraps storage failures that have no domain meaning.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	_, ok := target.(*StoreError)
	return ok
}

//endregion
