package service_interfaces

import (
	"context"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/commons"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error)
	GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error)
}
