package http

import (
	"net/http"
	"strconv"

	"github.com/BalbekovAD/lipt-soft-small-bank/internal/ledger/domain"
	"github.com/BalbekovAD/lipt-soft-small-bank/internal/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const ClientIDKey = "id"

type createClientRequestBody struct {
	Name string `json:"name" binding:"required"`
}

type createAccountRequestBody struct {
	Currency string           `json:"currency" binding:"required,len=3"`
	Initial  *decimal.Decimal `json:"initial" binding:"required"`
	Number   string           `json:"number" binding:"required"`
}

type transferRequestBody struct {
	From     string           `json:"from" binding:"required"`
	To       string           `json:"to" binding:"required"`
	Amount   *decimal.Decimal `json:"amount" binding:"required"`
	ClientID int64            `json:"clientId" binding:"required,gt=0"`
}

type LedgerHandler struct {
	service domain.LedgerService
	metrics *Metrics
	logger  logging.Logger
}

func NewLedgerHandler(service domain.LedgerService, metrics *Metrics, logger logging.Logger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *LedgerHandler) CreateClient(c *gin.Context) {
	var body createClientRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindingError(c, err)
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), body.Name)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *LedgerHandler) CreateAccount(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	var body createAccountRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithBindingError(c, err)
		return
	}

	account, err := h.service.CreateAccount(c.Request.Context(), clientID, body.Currency, *body.Initial, body.Number)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	clientID, ok := h.clientIDParam(c)
	if !ok {
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), clientID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *LedgerHandler) Transfer(c *gin.Context) {
	var body transferRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.ObserveTransfer("validation")
		respondWithBindingError(c, err)
		return
	}

	err := h.service.Transfer(c.Request.Context(), domain.TransferRequest{
		CallerClientID: body.ClientID,
		FromNumber:     body.From,
		ToNumber:       body.To,
		Amount:         *body.Amount,
	})
	if err != nil {
		h.metrics.ObserveTransfer(classifyError(err).label)
		h.respondWithError(c, err)
		return
	}

	h.metrics.ObserveTransfer("ok")
	c.Status(http.StatusOK)
}

func (h *LedgerHandler) clientIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(ClientIDKey), 10, 64)
	if err != nil {
		h.respondWithError(c, &domain.ValidationError{Msg: "client id must be an integer"})
		return 0, false
	}

	return id, true
}
