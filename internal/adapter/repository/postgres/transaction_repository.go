package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/corepay/transaction-service/internal/adapter/repository/repo_interfaces"
	"github.com/corepay/transaction-service/internal/domain"
	"github.com/corepay/transaction-service/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithAccountLock serializes all writers for one account. The SELECT ...
// FOR UPDATE on the accounts row blocks concurrent units of work for the
// same account until this transaction commits or rolls back, so the
// balance fn reads already includes every previously committed entry.
// The accounts row is locked rather than the newest ledger row because a
// fresh account has no ledger row to lock.
func (r *TransactionRepository) WithAccountLock(ctx context.Context, accountID string, fn func(ledger repo_interfaces.Ledger) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transaction repository begin tx failed", err, logger.Fields{
			"accountId": accountID,
		})
		return fmt.Errorf("begin ledger tx: %w", err)
	}

	const lockQuery = `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`

	var lockedID string
	if err := tx.QueryRowContext(ctx, lockQuery, accountID).Scan(&lockedID); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("transaction repository account not found", logger.Fields{
				"accountId": accountID,
			})
			return domain.ErrRecordNotFound
		}
		logger.Error("transaction repository lock account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return fmt.Errorf("lock account %q: %w", accountID, err)
	}

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("transaction repository commit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return fmt.Errorf("commit ledger tx: %w", err)
	}

	return nil
}

func (r *TransactionRepository) Statement(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	logger.Info("transaction repository statement", logger.Fields{
		"accountId": accountID,
		"limit":     limit,
		"offset":    offset,
	})

	const query = `
SELECT id, account_id, amount, txn_type, counterparty, reference, description, balance_after, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		logger.Error("transaction repository statement failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("query statement: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			logger.Error("transaction repository statement scan failed", err, logger.Fields{
				"accountId": accountID,
			})
			return nil, fmt.Errorf("scan statement row: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statement rows: %w", err)
	}

	logger.Info("transaction repository statement success", logger.Fields{
		"accountId": accountID,
		"count":     len(transactions),
	})

	return transactions, nil
}

// ledgerTx is the account-locked view handed to the transaction engine.
type ledgerTx struct {
	tx *sql.Tx
}

func (l *ledgerTx) CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	const query = `
SELECT balance_after
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1`

	var raw string
	if err := l.tx.QueryRowContext(ctx, query, accountID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("read current balance: %w", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse current balance %q: %w", raw, err)
	}

	return balance, nil
}

func (l *ledgerTx) Append(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	const query = `
INSERT INTO transactions (
	account_id,
	amount,
	txn_type,
	counterparty,
	reference,
	description,
	balance_after
) VALUES (
	$1, $2, $3, $4, $5, $6, $7
)
RETURNING id, created_at`

	var (
		id        int64
		createdAt time.Time
	)

	if err := l.tx.QueryRowContext(
		ctx,
		query,
		txn.AccountID,
		txn.Amount.StringFixed(2),
		txn.Type,
		txn.Counterparty,
		txn.Reference,
		txn.Description,
		txn.BalanceAfter.StringFixed(2),
	).Scan(&id, &createdAt); err != nil {
		logger.Error("transaction repository append failed", err, logger.Fields{
			"accountId": txn.AccountID,
			"reference": txn.Reference,
		})
		return domain.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	txn.ID = id
	txn.CreatedAt = createdAt

	logger.Info("transaction repository append success", logger.Fields{
		"transactionId": txn.ID,
		"accountId":     txn.AccountID,
		"reference":     txn.Reference,
	})

	return txn, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		txn          domain.Transaction
		amount       string
		balanceAfter string
		description  sql.NullString
	)

	if err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&amount,
		&txn.Type,
		&txn.Counterparty,
		&txn.Reference,
		&description,
		&balanceAfter,
		&txn.CreatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	parsedBalance, err := decimal.NewFromString(balanceAfter)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parse balance_after %q: %w", balanceAfter, err)
	}

	txn.Amount = parsedAmount
	txn.BalanceAfter = parsedBalance
	if description.Valid {
		value := description.String
		txn.Description = &value
	}

	return txn, nil
}
