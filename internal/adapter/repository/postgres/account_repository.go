package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corepay/transaction-service/internal/domain"
	"github.com/corepay/transaction-service/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"customerId":    account.CustomerID,
		"accountNumber": account.AccountNumber,
		"currency":      account.Currency,
	})

	const query = `
INSERT INTO accounts (
	customer_id,
	account_number,
	currency,
	status
) VALUES (
	$1, $2, $3, $4
)
RETURNING id, created_at, updated_at`

	var (
		id        string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.CustomerID,
		account.AccountNumber,
		account.Currency,
		account.Status,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"customerId":    account.CustomerID,
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT id, customer_id, account_number, currency, status, created_at, updated_at
FROM accounts
WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT id, customer_id, account_number, currency, status, created_at, updated_at
FROM accounts
WHERE account_number = $1`

	return r.getOne(ctx, query, accountNumber)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	var account domain.Account

	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.CustomerID,
		&account.AccountNumber,
		&account.Currency,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, nil)
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}
