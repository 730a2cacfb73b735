package notifier

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionPostedEvent is emitted after a ledger commit. It is a
// notification only: consumers get no way to feed anything back into
// the ledger.
type TransactionPostedEvent struct {
	EventID       string          `json:"event_id"`
	TransactionID int64           `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reference     string          `json:"reference"`
	HighValue     bool            `json:"high_value"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Publisher is the post-commit notification sink. Implementations are
// best-effort: a publish failure must never affect a committed ledger
// entry, so callers log and move on.
type Publisher interface {
	PublishTransactionPosted(ctx context.Context, event TransactionPostedEvent) error
}

// Handler delivers one event to wherever notifications go.
type Handler func(ctx context.Context, event TransactionPostedEvent)
