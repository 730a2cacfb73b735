package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/adapter/repository/repo_interfaces"
	"github.com/corepay/transaction-service/internal/commons"
	"github.com/corepay/transaction-service/internal/domain"
	"github.com/corepay/transaction-service/internal/logger"
	"github.com/corepay/transaction-service/internal/usecase/service_interfaces"
)

type AccountService struct {
	accountRepo  repo_interfaces.AccountRepository
	customerRepo repo_interfaces.CustomerRepository
}

var _ service_interfaces.AccountService = (*AccountService)(nil)

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	customerRepo repo_interfaces.CustomerRepository,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
	}
}

var accountNumberCounter uint32

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	customerID := strings.TrimSpace(req.CustomerID)
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Customer not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	var created domain.Account
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		account := domain.Account{
			CustomerID:    customerID,
			AccountNumber: generateAccountNumber(),
			Currency:      currency,
			Status:        domain.AccountStatusActive,
		}

		created, err = s.accountRepo.Create(ctx, account)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
		}
	}
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	logger.Info("account service create account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
	})

	return commons.SuccessResponse("Account created", mapAccountToResponse(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := errors.New("accountId is required")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service get account failed", err, logger.Fields{
			"accountId": id,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to fetch account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("Account fetched", mapAccountToResponse(account)), nil
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		AccountID:     account.ID,
		CustomerID:    account.CustomerID,
		AccountNumber: account.AccountNumber,
		Currency:      account.Currency,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt,
	}
}

func generateAccountNumber() string {
	now := time.Now().UTC()
	base := fmt.Sprintf("%06d", now.Unix()%1000000)
	counter := atomic.AddUint32(&accountNumberCounter, 1) % 10000
	return base + fmt.Sprintf("%04d", counter)
}
