package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account is owned by the account collaborator; the ledger core only
// references and locks it, it never mutates account state. Balances are
// not stored here: the ledger is the single source of truth.
type Account struct {
	ID            string
	CustomerID    string
	AccountNumber string
	Currency      string
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
