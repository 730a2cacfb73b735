package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// DefaultCounterparty is recorded when the caller does not name one.
const DefaultCounterparty = "External"

// Transaction is one immutable ledger entry. Amount is the signed delta
// applied to the account balance (positive for deposits, negative for
// withdrawals) and BalanceAfter is the authoritative balance snapshot
// taken at commit time; it is never recomputed from earlier rows.
type Transaction struct {
	ID           int64
	AccountID    string
	Amount       decimal.Decimal
	Type         TransactionType
	Counterparty string
	Reference    string
	Description  *string
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}
