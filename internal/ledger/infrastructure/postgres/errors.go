package postgres

import (
	"context"
	"errors"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapStoreError turns a driver error into a domain error. Lock waits that end
// in a timeout, a deadlock or a cancelled statement become ConcurrencyError,
// everything else becomes StoreError.
func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.LockNotAvailable:
			return &domain.ConcurrencyError{Msg: "lock wait timed out", Err: err}
		case pgerrcode.DeadlockDetected:
			return &domain.ConcurrencyError{Msg: "deadlock detected", Err: err}
		case pgerrcode.SerializationFailure:
			return &domain.ConcurrencyError{Msg: "serialization failure", Err: err}
		case pgerrcode.QueryCanceled:
			return &domain.ConcurrencyError{Msg: "statement cancelled", Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ConcurrencyError{Msg: "lock wait timed out", Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &domain.ConcurrencyError{Msg: "lock wait cancelled", Err: err}
	}

	return &domain.StoreError{Op: op, Err: err}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
