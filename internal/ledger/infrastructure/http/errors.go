package http

import (
	"errors"
	"net/http"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type errorResponse struct {
	Errors  string       `json:"errors"`
	Details []fieldError `json:"details,omitempty"`
}

// errorKind is used both for the response status and as the transfer outcome label.
type errorKind struct {
	status int
	label  string
}

var errorKinds = []struct {
	target error
	kind   errorKind
}{
	{&domain.ValidationError{}, errorKind{http.StatusBadRequest, "validation"}},
	{&domain.InvalidOperationError{}, errorKind{http.StatusBadRequest, "invalid_operation"}},
	{&domain.AuthorizationError{}, errorKind{http.StatusForbidden, "forbidden"}},
	{&domain.NotFoundError{}, errorKind{http.StatusNotFound, "not_found"}},
	{&domain.AccountExistsError{}, errorKind{http.StatusConflict, "account_exists"}},
	{&domain.ConcurrencyError{}, errorKind{http.StatusConflict, "concurrency"}},
	{&domain.CurrencyMismatchError{}, errorKind{http.StatusUnprocessableEntity, "currency_mismatch"}},
	{&domain.InsufficientFundsError{}, errorKind{http.StatusUnprocessableEntity, "insufficient_funds"}},
}

var internalErrorKind = errorKind{http.StatusInternalServerError, "internal"}

func classifyError(err error) errorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.kind
		}
	}

	return internalErrorKind
}

func (h *LedgerHandler) respondWithError(c *gin.Context, err error) {
	kind := classifyError(err)
	if kind == internalErrorKind {
		h.logger.Error("request failed",
			"request_id", c.GetString(RequestIDKey),
			"path", c.FullPath(),
			"error", err.Error(),
		)
		c.JSON(kind.status, errorResponse{Errors: "internal server error"})
		return
	}

	c.JSON(kind.status, errorResponse{Errors: err.Error()})
}

func respondWithBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, errorResponse{Errors: "invalid request body"})
		return
	}

	details := make([]fieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, fieldError{
			Field:   fe.Field(),
			Message: fieldErrorMessage(fe),
			Type:    fe.Tag(),
		})
	}

	c.JSON(http.StatusBadRequest, errorResponse{Errors: "invalid request body", Details: details})
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "len":
		return "must be exactly " + fe.Param() + " characters long"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "invalid value"
	}
}
