package repo_interfaces

import (
	"context"

	"github.com/corepay/transaction-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger is the slice of the transaction repository visible inside an
// account-exclusive unit of work. Both operations run on the same
// database transaction that holds the account lock, so a balance read
// followed by an append is serialized against every other writer on
// the same account.
type Ledger interface {
	// CurrentBalance returns the balance_after of the newest ledger
	// entry for the account, or zero when the account has no history.
	CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// Append writes one ledger entry and returns it with its
	// server-assigned id and created_at populated.
	Append(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
}

type TransactionRepository interface {
	// WithAccountLock runs fn inside a single database transaction that
	// holds an exclusive lock on the account row. The transaction is
	// committed when fn returns nil and rolled back otherwise; a
	// rollback leaves no observable effect on the ledger. Returns
	// domain.ErrRecordNotFound when the account does not exist.
	WithAccountLock(ctx context.Context, accountID string, fn func(ledger Ledger) error) error

	// Statement returns the account's ledger entries newest first,
	// bounded by limit and offset.
	Statement(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
}
