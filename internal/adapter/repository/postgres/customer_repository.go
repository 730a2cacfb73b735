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

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	logger.Info("customer repository create", logger.Fields{
		"email": customer.Email,
	})

	const query = `
INSERT INTO customers (
	first_name,
	last_name,
	email,
	phone_number,
	transaction_pin_hash
) VALUES (
	$1, $2, $3, $4, $5
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
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.PhoneNumber,
		customer.TransactionPinHash,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("customer repository create failed", err, logger.Fields{
			"email": customer.Email,
		})
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	customer.ID = id
	customer.CreatedAt = createdAt
	customer.UpdatedAt = updatedAt

	logger.Info("customer repository create success", logger.Fields{
		"customerId": customer.ID,
	})

	return customer, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	const query = `
SELECT id, first_name, last_name, email, phone_number, transaction_pin_hash, created_at, updated_at
FROM customers
WHERE id = $1`

	var customer domain.Customer

	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.PhoneNumber,
		&customer.TransactionPinHash,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrRecordNotFound
		}
		logger.Error("customer repository get failed", err, logger.Fields{
			"customerId": id,
		})
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	return customer, nil
}
