package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	mocks "github.com/BalbekovAD/lipt-soft-small-bank/gen/mocks/ledger"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestLedgerHandler_CreateClient(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name           string
		requestBody    any
		expectedStatus int

		prepareFn       func(t *testing.T, service *mocks.MockLedgerService)
		checkResponseFn func(t *testing.T, recorder *httptest.ResponseRecorder)
	}

	tests := []testCase{
		{
			name:           "created",
			requestBody:    map[string]string{"name": "Alice"},
			expectedStatus: http.StatusCreated,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().CreateClient(gomock.Any(), "Alice").Return(domain.Client{ID: 1, Name: "Alice"}, nil).Times(1)
			},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"id":1,"name":"Alice"}`, recorder.Body.String())
			},
		},
		{
			name:           "missing name",
			requestBody:    map[string]string{},
			expectedStatus: http.StatusBadRequest,
			prepareFn:      func(t *testing.T, service *mocks.MockLedgerService) {},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				resp := decodeError(t, recorder)
				require.Len(t, resp.Details, 1)
				assert.Equal(t, "Name", resp.Details[0].Field)
				assert.Equal(t, "required", resp.Details[0].Type)
			},
		},
		{
			name:           "malformed json",
			requestBody:    `{"name":`,
			expectedStatus: http.StatusBadRequest,
			prepareFn:      func(t *testing.T, service *mocks.MockLedgerService) {},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				resp := decodeError(t, recorder)
				assert.Equal(t, "invalid request body", resp.Errors)
				assert.Empty(t, resp.Details)
			},
		},
		{
			name:           "blank name rejected by service",
			requestBody:    map[string]string{"name": "   "},
			expectedStatus: http.StatusBadRequest,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().CreateClient(gomock.Any(), "   ").
					Return(domain.Client{}, &domain.ValidationError{Msg: "client name must not be empty"})
			},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				assert.Equal(t, "client name must not be empty", decodeError(t, recorder).Errors)
			},
		},
		{
			name:           "store failure is hidden",
			requestBody:    map[string]string{"name": "Alice"},
			expectedStatus: http.StatusInternalServerError,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().CreateClient(gomock.Any(), "Alice").
					Return(domain.Client{}, &domain.StoreError{Op: "save client", Err: assert.AnError})
			},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				assert.Equal(t, "internal server error", decodeError(t, recorder).Errors)
			},
		},
	}

	gin.SetMode(gin.TestMode)

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			service := mocks.NewMockLedgerService(ctrl)
			tt.prepareFn(t, service)
			handler := NewLedgerHandler(service, NewMetrics(), nopLogger)

			writer := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(writer)
			c.Request = newJSONRequest(t, http.MethodPost, "/api/clients", tt.requestBody)

			handler.CreateClient(c)

			assert.Equal(t, tt.expectedStatus, writer.Code)
			if tt.checkResponseFn != nil {
				tt.checkResponseFn(t, writer)
			}
		})
	}
}

func TestLedgerHandler_CreateAccount(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name           string
		clientID       string
		requestBody    any
		expectedStatus int

		prepareFn       func(t *testing.T, service *mocks.MockLedgerService)
		checkResponseFn func(t *testing.T, recorder *httptest.ResponseRecorder)
	}

	tests := []testCase{
		{
			name:           "created from string amount",
			clientID:       "3",
			requestBody:    `{"currency":"usd","initial":"100.50","number":"ACC-1"}`,
			expectedStatus: http.StatusCreated,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), int64(3), "usd", decimalEq("100.5"), "ACC-1").
					Return(domain.Account{ID: 7, ClientID: 3, Currency: "USD", Balance: decimal.RequireFromString("100.5"), Number: "ACC-1"}, nil).
					Times(1)
			},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				assert.JSONEq(t,
					`{"id":7,"clientId":3,"currency":"USD","balance":"100.5","accountNumber":"ACC-1"}`,
					recorder.Body.String())
			},
		},
		{
			name:           "created from numeric amount",
			clientID:       "3",
			requestBody:    `{"currency":"EUR","initial":0,"number":"ACC-2"}`,
			expectedStatus: http.StatusCreated,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), int64(3), "EUR", decimalEq("0"), "ACC-2").
					Return(domain.Account{ID: 8, ClientID: 3, Currency: "EUR", Number: "ACC-2"}, nil)
			},
		},
		{
			name:           "non numeric client id",
			clientID:       "abc",
			requestBody:    `{"currency":"EUR","initial":0,"number":"ACC-2"}`,
			expectedStatus: http.StatusBadRequest,
			prepareFn:      func(t *testing.T, service *mocks.MockLedgerService) {},
		},
		{
			name:           "missing initial balance",
			clientID:       "3",
			requestBody:    `{"currency":"EUR","number":"ACC-2"}`,
			expectedStatus: http.StatusBadRequest,
			prepareFn:      func(t *testing.T, service *mocks.MockLedgerService) {},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				resp := decodeError(t, recorder)
				require.Len(t, resp.Details, 1)
				assert.Equal(t, "Initial", resp.Details[0].Field)
			},
		},
		{
			name:           "currency code of wrong length",
			clientID:       "3",
			requestBody:    `{"currency":"EURO","initial":1,"number":"ACC-2"}`,
			expectedStatus: http.StatusBadRequest,
			prepareFn:      func(t *testing.T, service *mocks.MockLedgerService) {},
			checkResponseFn: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				resp := decodeError(t, recorder)
				require.Len(t, resp.Details, 1)
				assert.Equal(t, "len", resp.Details[0].Type)
			},
		},
		{
			name:           "unknown client",
			clientID:       "99",
			requestBody:    `{"currency":"EUR","initial":1,"number":"ACC-2"}`,
			expectedStatus: http.StatusNotFound,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), int64(99), "EUR", decimalEq("1"), "ACC-2").
					Return(domain.Account{}, &domain.ClientNotFoundError{ID: 99})
			},
		},
		{
			name:           "duplicate number",
			clientID:       "3",
			requestBody:    `{"currency":"EUR","initial":1,"number":"ACC-2"}`,
			expectedStatus: http.StatusConflict,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), int64(3), "EUR", decimalEq("1"), "ACC-2").
					Return(domain.Account{}, &domain.AccountExistsError{Number: "ACC-2"})
			},
		},
	}

	gin.SetMode(gin.TestMode)

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			service := mocks.NewMockLedgerService(ctrl)
			tt.prepareFn(t, service)
			handler := NewLedgerHandler(service, NewMetrics(), nopLogger)

			writer := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(writer)
			c.Request = newJSONRequest(t, http.MethodPost, "/api/clients/"+tt.clientID+"/accounts", tt.requestBody)
			c.Params = gin.Params{{Key: ClientIDKey, Value: tt.clientID}}

			handler.CreateAccount(c)

			assert.Equal(t, tt.expectedStatus, writer.Code)
			if tt.checkResponseFn != nil {
				tt.checkResponseFn(t, writer)
			}
		})
	}
}

func TestLedgerHandler_ListAccounts(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name           string
		expectedStatus int
		expectedBody   string

		prepareFn func(t *testing.T, service *mocks.MockLedgerService)
	}

	tests := []testCase{
		{
			name:           "empty list is an array",
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().ListAccounts(gomock.Any(), int64(5)).Return([]domain.Account{}, nil)
			},
		},
		{
			name:           "two accounts",
			expectedStatus: http.StatusOK,
			expectedBody: `[{"id":1,"clientId":5,"currency":"USD","balance":"10","accountNumber":"A"},
				{"id":2,"clientId":5,"currency":"RUB","balance":"0.01","accountNumber":"B"}]`,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().ListAccounts(gomock.Any(), int64(5)).Return([]domain.Account{
					{ID: 1, ClientID: 5, Currency: "USD", Balance: decimal.NewFromInt(10), Number: "A"},
					{ID: 2, ClientID: 5, Currency: "RUB", Balance: decimal.RequireFromString("0.01"), Number: "B"},
				}, nil)
			},
		},
		{
			name:           "unknown client",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"errors":"client 5 not found"}`,
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().ListAccounts(gomock.Any(), int64(5)).Return(nil, &domain.ClientNotFoundError{ID: 5})
			},
		},
	}

	gin.SetMode(gin.TestMode)

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			service := mocks.NewMockLedgerService(ctrl)
			tt.prepareFn(t, service)
			handler := NewLedgerHandler(service, NewMetrics(), nopLogger)

			writer := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(writer)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/clients/5/accounts", nil)
			c.Params = gin.Params{{Key: ClientIDKey, Value: "5"}}

			handler.ListAccounts(c)

			assert.Equal(t, tt.expectedStatus, writer.Code)
			assert.JSONEq(t, tt.expectedBody, writer.Body.String())
		})
	}
}

func TestLedgerHandler_Transfer(t *testing.T) {
	t.Parallel()

	validBody := `{"from":"A","to":"B","amount":"25.5","clientId":1}`
	expectedReq := domain.TransferRequest{
		CallerClientID: 1,
		FromNumber:     "A",
		ToNumber:       "B",
		Amount:         decimal.RequireFromString("25.5"),
	}

	type testCase struct {
		name            string
		requestBody     string
		expectedStatus  int
		expectedOutcome string

		prepareFn func(t *testing.T, service *mocks.MockLedgerService)
	}

	tests := []testCase{
		{
			name:            "completed",
			requestBody:     validBody,
			expectedStatus:  http.StatusOK,
			expectedOutcome: "ok",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), transferEq(expectedReq)).Return(nil).Times(1)
			},
		},
		{
			name:            "missing client id",
			requestBody:     `{"from":"A","to":"B","amount":"25.5"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedOutcome: "validation",
			prepareFn:       func(t *testing.T, service *mocks.MockLedgerService) {},
		},
		{
			name:            "same account",
			requestBody:     `{"from":"A","to":"A","amount":"1","clientId":1}`,
			expectedStatus:  http.StatusBadRequest,
			expectedOutcome: "invalid_operation",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).
					Return(&domain.InvalidOperationError{Msg: "cannot transfer to the same account"})
			},
		},
		{
			name:            "foreign source account",
			requestBody:     validBody,
			expectedStatus:  http.StatusForbidden,
			expectedOutcome: "forbidden",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).
					Return(&domain.AuthorizationError{Msg: "cannot transfer from another client's account"})
			},
		},
		{
			name:            "missing account",
			requestBody:     validBody,
			expectedStatus:  http.StatusNotFound,
			expectedOutcome: "not_found",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(&domain.AccountNotFoundError{Number: "B"})
			},
		},
		{
			name:            "currency mismatch",
			requestBody:     validBody,
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedOutcome: "currency_mismatch",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(&domain.CurrencyMismatchError{From: "USD", To: "EUR"})
			},
		},
		{
			name:            "insufficient funds",
			requestBody:     validBody,
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedOutcome: "insufficient_funds",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(&domain.InsufficientFundsError{Number: "A"})
			},
		},
		{
			name:            "lock timeout",
			requestBody:     validBody,
			expectedStatus:  http.StatusConflict,
			expectedOutcome: "concurrency",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(&domain.ConcurrencyError{Msg: "lock wait timed out"})
			},
		},
		{
			name:            "unexpected error",
			requestBody:     validBody,
			expectedStatus:  http.StatusInternalServerError,
			expectedOutcome: "internal",
			prepareFn: func(t *testing.T, service *mocks.MockLedgerService) {
				service.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(assert.AnError)
			},
		},
	}

	gin.SetMode(gin.TestMode)

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			service := mocks.NewMockLedgerService(ctrl)
			tt.prepareFn(t, service)
			metrics := NewMetrics()
			handler := NewLedgerHandler(service, metrics, nopLogger)

			writer := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(writer)
			c.Request = newJSONRequest(t, http.MethodPost, "/api/transfer", tt.requestBody)

			handler.Transfer(c)

			assert.Equal(t, tt.expectedStatus, writer.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transfersTotal.WithLabelValues(tt.expectedOutcome)))
		})
	}
}

type decimalMatcher struct {
	expected decimal.Decimal
}

func decimalEq(value string) gomock.Matcher {
	return decimalMatcher{expected: decimal.RequireFromString(value)}
}

func (m decimalMatcher) Matches(x any) bool {
	actual, ok := x.(decimal.Decimal)
	return ok && actual.Equal(m.expected)
}

func (m decimalMatcher) String() string {
	return "is decimal " + m.expected.String()
}

type transferMatcher struct {
	expected domain.TransferRequest
}

func transferEq(req domain.TransferRequest) gomock.Matcher {
	return transferMatcher{expected: req}
}

func (m transferMatcher) Matches(x any) bool {
	actual, ok := x.(domain.TransferRequest)
	return ok &&
		actual.CallerClientID == m.expected.CallerClientID &&
		actual.FromNumber == m.expected.FromNumber &&
		actual.ToNumber == m.expected.ToNumber &&
		actual.Amount.Equal(m.expected.Amount)
}

func (m transferMatcher) String() string {
	return "is transfer " + m.expected.FromNumber + " -> " + m.expected.ToNumber + " of " + m.expected.Amount.String()
}
