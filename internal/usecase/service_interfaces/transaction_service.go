package service_interfaces

import (
	"context"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/commons"
)

type TransactionService interface {
	Deposit(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error)
	Statement(ctx context.Context, accountID string, limit, offset int) (commons.Response[models.StatementResponse], error)
}
