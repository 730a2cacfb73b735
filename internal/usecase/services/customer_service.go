package services

import (
	"context"
	"errors"
	"strings"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/adapter/repository/repo_interfaces"
	"github.com/corepay/transaction-service/internal/commons"
	"github.com/corepay/transaction-service/internal/domain"
	"github.com/corepay/transaction-service/internal/logger"
	"github.com/corepay/transaction-service/internal/usecase/service_interfaces"
	"golang.org/x/crypto/bcrypt"
)

type CustomerService struct {
	customerRepo repo_interfaces.CustomerRepository
}

var _ service_interfaces.CustomerService = (*CustomerService)(nil)

func NewCustomerService(customerRepo repo_interfaces.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error) {
	logger.Info("customer service create customer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("customer service create customer validation failed", err, nil)
		return commons.ErrorResponse[models.CustomerResponse]("validation failed", err.Error()), err
	}

	hashedPin, err := hashTransactionPin(strings.TrimSpace(req.TransactionPin))
	if err != nil {
		logger.Error("customer service hash transaction pin failed", err, nil)
		return commons.ErrorResponse[models.CustomerResponse]("failed to create customer", "failed to hash transaction pin"), err
	}

	customer := domain.Customer{
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:        strings.TrimSpace(req.PhoneNumber),
		TransactionPinHash: hashedPin,
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		if isUniqueViolation(err) {
			return commons.ErrorResponse[models.CustomerResponse]("failed to create customer", "email already registered"), err
		}
		return commons.ErrorResponse[models.CustomerResponse]("failed to create customer", "Unable to create customer right now"), err
	}

	logger.Info("customer service create customer success", logger.Fields{
		"customerId": created.ID,
	})

	return commons.SuccessResponse("Customer created", mapCustomerToResponse(created)), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := errors.New("customerId is required")
		return commons.ErrorResponse[models.CustomerResponse]("validation failed", err.Error()), err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CustomerResponse]("Customer not found"), err
		}
		logger.Error("customer service get customer failed", err, logger.Fields{
			"customerId": id,
		})
		return commons.ErrorResponse[models.CustomerResponse]("failed to fetch customer", "Unable to fetch customer right now"), err
	}

	return commons.SuccessResponse("Customer fetched", mapCustomerToResponse(customer)), nil
}

func mapCustomerToResponse(customer domain.Customer) models.CustomerResponse {
	return models.CustomerResponse{
		CustomerID:  customer.ID,
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		PhoneNumber: customer.PhoneNumber,
		CreatedAt:   customer.CreatedAt,
	}
}

func hashTransactionPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
