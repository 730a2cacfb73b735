package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/commons"
	"github.com/corepay/transaction-service/internal/logger"
)

type TransactionService interface {
	Deposit(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error)
	Statement(ctx context.Context, accountID string, limit, offset int) (commons.Response[models.StatementResponse], error)
}

type TransactionController struct {
	service TransactionService
}

func NewTransactionController(service TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	deposit := http.HandlerFunc(c.deposit)
	withdraw := http.HandlerFunc(c.withdraw)
	statement := http.HandlerFunc(c.statement)

	if authMiddleware != nil {
		deposit = authMiddleware(deposit).ServeHTTP
		withdraw = authMiddleware(withdraw).ServeHTTP
		statement = authMiddleware(statement).ServeHTTP
	}

	mux.Handle("/transactions/deposit", http.HandlerFunc(deposit))
	mux.Handle("/transactions/withdraw", http.HandlerFunc(withdraw))
	mux.Handle("/transactions/statement/", http.HandlerFunc(statement))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	c.post(w, r, c.service.Deposit)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.post(w, r, c.service.Withdraw)
}

func (c *TransactionController) post(
	w http.ResponseWriter,
	r *http.Request,
	operation func(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error),
) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := operation(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		if response.Message == "Account not found" {
			status = http.StatusNotFound
		}
		if response.Message == "Insufficient funds" {
			status = http.StatusUnprocessableEntity
		}

		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *TransactionController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.StatementResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountID := strings.TrimPrefix(r.URL.Path, "/transactions/statement/")
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)
	offset := parseIntOrDefault(r.URL.Query().Get("offset"), 0)

	response, err := c.service.Statement(r.Context(), accountID, limit, offset)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}

		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func parseIntOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
