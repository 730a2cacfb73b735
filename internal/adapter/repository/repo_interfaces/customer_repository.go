package repo_interfaces

import (
	"context"

	"github.com/corepay/transaction-service/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id string) (domain.Customer, error)
}
