package models

import (
	"errors"
	"strings"
	"time"

	"github.com/corepay/transaction-service/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of both deposit and withdraw calls.
// Amount is always the requested magnitude; the engine decides the sign.
type TransactionRequest struct {
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty string          `json:"counterparty,omitempty"`
	Description  string          `json:"description,omitempty"`
}

func (r TransactionRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "account_id is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransactionResponse struct {
	TransactionID int64           `json:"txn_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"txn_type"`
	Counterparty  string          `json:"counterparty"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description,omitempty"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

type StatementResponse struct {
	AccountID    string                `json:"account_id"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	Transactions []TransactionResponse `json:"transactions"`
}

func MapTransactionToResponse(txn domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		Counterparty:  txn.Counterparty,
		Reference:     txn.Reference,
		BalanceAfter:  txn.BalanceAfter,
		CreatedAt:     txn.CreatedAt,
	}
	if txn.Description != nil {
		response.Description = *txn.Description
	}
	return response
}
