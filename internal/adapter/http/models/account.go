package models

import (
	"errors"
	"strings"
	"time"
)

type CreateAccountRequest struct {
	CustomerID string `json:"customer_id"`
	Currency   string `json:"currency,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CustomerID) == "" {
		errs = append(errs, "customer_id is required")
	}
	if currency := strings.TrimSpace(r.Currency); currency != "" && len(currency) != 3 {
		errs = append(errs, "currency must be 3 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	AccountID     string    `json:"account_id"`
	CustomerID    string    `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
