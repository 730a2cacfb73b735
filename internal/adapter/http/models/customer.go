package models

import (
	"errors"
	"strings"
	"time"
)

type CreateCustomerRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	TransactionPin string `json:"transaction_pin"`
}

func (r CreateCustomerRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "last_name is required")
	}

	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, "email must be a valid email address")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		errs = append(errs, "phone_number is required")
	}

	pin := strings.TrimSpace(r.TransactionPin)
	if len(pin) != 4 || !digitsOnly(pin) {
		errs = append(errs, "transaction_pin must be exactly 4 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type CustomerResponse struct {
	CustomerID  string    `json:"customer_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
