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
	"github.com/corepay/transaction-service/internal/notifier"
	"github.com/corepay/transaction-service/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const defaultStatementLimit = 50
const maxStatementLimit = 500

// referenceAttempts bounds the retry loop around reference generation;
// a v4 UUID collision is all it guards against.
const referenceAttempts = 5

type TransactionService struct {
	transactionRepo    repo_interfaces.TransactionRepository
	publisher          notifier.Publisher
	highValueThreshold decimal.Decimal
}

var _ service_interfaces.TransactionService = (*TransactionService)(nil)

func NewTransactionService(
	transactionRepo repo_interfaces.TransactionRepository,
	publisher notifier.Publisher,
	highValueThreshold decimal.Decimal,
) *TransactionService {
	return &TransactionService{
		transactionRepo:    transactionRepo,
		publisher:          publisher,
		highValueThreshold: highValueThreshold,
	}
}

// Deposit credits the account. References are generated per attempt and
// are not an idempotency key: a client that retries after a timeout can
// double-apply and must reconcile through the returned reference.
func (s *TransactionService) Deposit(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	created, err := s.post(ctx, req, domain.TransactionTypeDeposit)
	if err != nil {
		return mapPostError(err, "deposit"), err
	}

	logger.Info("transaction service deposit success", logger.Fields{
		"transactionId": created.ID,
		"accountId":     created.AccountID,
		"reference":     created.Reference,
	})

	return commons.SuccessResponse("Deposit successful", models.MapTransactionToResponse(created)), nil
}

// Withdraw debits the account after the admission check. The unit of
// work rolls back without writing when the new balance would be
// negative, so a rejected withdrawal leaves no trace in the ledger.
func (s *TransactionService) Withdraw(ctx context.Context, req models.TransactionRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	created, err := s.post(ctx, req, domain.TransactionTypeWithdrawal)
	if err != nil {
		return mapPostError(err, "withdrawal"), err
	}

	logger.Info("transaction service withdraw success", logger.Fields{
		"transactionId": created.ID,
		"accountId":     created.AccountID,
		"reference":     created.Reference,
	})

	return commons.SuccessResponse("Withdrawal successful", models.MapTransactionToResponse(created)), nil
}

func (s *TransactionService) Statement(ctx context.Context, accountID string, limit, offset int) (commons.Response[models.StatementResponse], error) {
	logger.Info("transaction service statement request", logger.Fields{
		"accountId": accountID,
		"limit":     limit,
		"offset":    offset,
	})

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		err := errors.New("accountId is required")
		return commons.ErrorResponse[models.StatementResponse]("validation failed", err.Error()), err
	}

	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.transactionRepo.Statement(ctx, accountID, limit, offset)
	if err != nil {
		logger.Error("transaction service statement failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.StatementResponse]("failed to fetch statement", "Unable to fetch statement right now"), err
	}

	response := models.StatementResponse{
		AccountID:    accountID,
		Limit:        limit,
		Offset:       offset,
		Transactions: make([]models.TransactionResponse, 0, len(transactions)),
	}
	for _, txn := range transactions {
		response.Transactions = append(response.Transactions, models.MapTransactionToResponse(txn))
	}

	logger.Info("transaction service statement success", logger.Fields{
		"accountId": accountID,
		"count":     len(response.Transactions),
	})

	return commons.SuccessResponse("Statement fetched", response), nil
}

// post runs the read-validate-append sequence inside an account-exclusive
// unit of work and emits the post-commit notification.
func (s *TransactionService) post(ctx context.Context, req models.TransactionRequest, txnType domain.TransactionType) (domain.Transaction, error) {
	accountID := strings.TrimSpace(req.AccountID)
	amount := req.Amount

	counterparty := strings.TrimSpace(req.Counterparty)
	if counterparty == "" {
		counterparty = domain.DefaultCounterparty
	}

	var description *string
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		description = &trimmed
	}

	var created domain.Transaction
	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		reference := generateReference(txnType)

		err = s.transactionRepo.WithAccountLock(ctx, accountID, func(ledger repo_interfaces.Ledger) error {
			balance, balanceErr := ledger.CurrentBalance(ctx, accountID)
			if balanceErr != nil {
				return balanceErr
			}

			delta := amount
			newBalance := balance.Add(amount)
			if txnType == domain.TransactionTypeWithdrawal {
				delta = amount.Neg()
				newBalance = balance.Sub(amount)
				if newBalance.IsNegative() {
					logger.Info("transaction service withdrawal rejected", logger.Fields{
						"accountId": accountID,
						"balance":   balance.StringFixed(2),
						"amount":    amount.StringFixed(2),
					})
					return domain.ErrNoOverdraft
				}
			}

			var appendErr error
			created, appendErr = ledger.Append(ctx, domain.Transaction{
				AccountID:    accountID,
				Amount:       delta,
				Type:         txnType,
				Counterparty: counterparty,
				Reference:    reference,
				Description:  description,
				BalanceAfter: newBalance,
			})
			return appendErr
		})
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return domain.Transaction{}, err
		}
	}
	if err != nil {
		return domain.Transaction{}, err
	}

	s.notify(ctx, created)
	return created, nil
}

// notify is best-effort: failures are logged and swallowed so that a
// committed ledger entry is never affected by the sink.
func (s *TransactionService) notify(ctx context.Context, txn domain.Transaction) {
	if s.publisher == nil {
		return
	}

	event := notifier.TransactionPostedEvent{
		TransactionID: txn.ID,
		AccountID:     txn.AccountID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		BalanceAfter:  txn.BalanceAfter,
		Reference:     txn.Reference,
		HighValue:     txn.Amount.Abs().GreaterThanOrEqual(s.highValueThreshold),
	}

	if err := s.publisher.PublishTransactionPosted(ctx, event); err != nil {
		logger.Error("transaction service notification publish failed", err, logger.Fields{
			"transactionId": txn.ID,
			"reference":     txn.Reference,
		})
	}
}

func mapPostError(err error, operation string) commons.Response[models.TransactionResponse] {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return commons.ErrorResponse[models.TransactionResponse]("Account not found")
	}
	if errors.Is(err, domain.ErrNoOverdraft) {
		return commons.ErrorResponse[models.TransactionResponse]("Insufficient funds", "NO_OVERDRAFT")
	}
	return commons.ErrorResponse[models.TransactionResponse]("failed to process "+operation, "Unable to process transaction right now")
}

func generateReference(txnType domain.TransactionType) string {
	prefix := "DEP"
	if txnType == domain.TransactionTypeWithdrawal {
		prefix = "WDL"
	}
	return prefix + "-" + uuid.New().String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
