package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/corepay/transaction-service/internal/adapter/repository/repo_interfaces"
	"github.com/corepay/transaction-service/internal/domain"
	"github.com/corepay/transaction-service/internal/notifier"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// fakeTransactionRepo mirrors the postgres repository's contract: the
// mutex stands in for the account row lock, and a failed unit of work
// truncates back to the checkpoint so rollbacks leave no trace.
type fakeTransactionRepo struct {
	mu       sync.Mutex
	accounts map[string]struct{}
	entries  []domain.Transaction
	refs     map[string]struct{}
	nextID   int64
}

func newFakeTransactionRepo(accountIDs ...string) *fakeTransactionRepo {
	accounts := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		accounts[id] = struct{}{}
	}
	return &fakeTransactionRepo{
		accounts: accounts,
		refs:     make(map[string]struct{}),
	}
}

func (f *fakeTransactionRepo) WithAccountLock(ctx context.Context, accountID string, fn func(ledger repo_interfaces.Ledger) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[accountID]; !ok {
		return domain.ErrRecordNotFound
	}

	checkpoint := len(f.entries)
	if err := fn(&fakeLedger{repo: f}); err != nil {
		for _, txn := range f.entries[checkpoint:] {
			delete(f.refs, txn.Reference)
		}
		f.entries = f.entries[:checkpoint]
		return err
	}
	return nil
}

func (f *fakeTransactionRepo) Statement(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]domain.Transaction, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].AccountID == accountID {
			matched = append(matched, f.entries[i])
		}
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeTransactionRepo) entryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakeTransactionRepo) latestBalance(accountID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].AccountID == accountID {
			return f.entries[i].BalanceAfter
		}
	}
	return decimal.Zero
}

type fakeLedger struct {
	repo *fakeTransactionRepo
}

func (l *fakeLedger) CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	for i := len(l.repo.entries) - 1; i >= 0; i-- {
		if l.repo.entries[i].AccountID == accountID {
			return l.repo.entries[i].BalanceAfter, nil
		}
	}
	return decimal.Zero, nil
}

func (l *fakeLedger) Append(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	if _, duplicate := l.repo.refs[txn.Reference]; duplicate {
		return domain.Transaction{}, &pq.Error{Code: "23505"}
	}

	l.repo.nextID++
	txn.ID = l.repo.nextID
	txn.CreatedAt = time.Now().UTC()
	l.repo.refs[txn.Reference] = struct{}{}
	l.repo.entries = append(l.repo.entries, txn)
	return txn, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []notifier.TransactionPostedEvent
}

func (p *capturingPublisher) PublishTransactionPosted(ctx context.Context, event notifier.TransactionPostedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) captured() []notifier.TransactionPostedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notifier.TransactionPostedEvent, len(p.events))
	copy(out, p.events)
	return out
}

type failingPublisher struct{}

func (failingPublisher) PublishTransactionPosted(ctx context.Context, event notifier.TransactionPostedEvent) error {
	return errors.New("notification sink unavailable")
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	byID     map[string]domain.Account
	byNumber map[string]domain.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:     make(map[string]domain.Account),
		byNumber: make(map[string]domain.Account),
	}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, duplicate := f.byNumber[account.AccountNumber]; duplicate {
		return domain.Account{}, &pq.Error{Code: "23505"}
	}

	f.nextID++
	account.ID = fmt.Sprintf("acc-%04d", f.nextID)
	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	f.byID[account.ID] = account
	f.byNumber[account.AccountNumber] = account
	return account, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.byNumber[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

type fakeCustomerRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.Customer
	byEmail map[string]domain.Customer
	nextID  int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		byID:    make(map[string]domain.Customer),
		byEmail: make(map[string]domain.Customer),
	}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, duplicate := f.byEmail[customer.Email]; duplicate {
		return domain.Customer{}, &pq.Error{Code: "23505"}
	}

	f.nextID++
	customer.ID = fmt.Sprintf("cust-%04d", f.nextID)
	customer.CreatedAt = time.Now().UTC()
	customer.UpdatedAt = customer.CreatedAt
	f.byID[customer.ID] = customer
	f.byEmail[customer.Email] = customer
	return customer, nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer, ok := f.byID[id]
	if !ok {
		return domain.Customer{}, domain.ErrRecordNotFound
	}
	return customer, nil
}

func (f *fakeCustomerRepo) seed(customer domain.Customer) domain.Customer {
	created, _ := f.Create(context.Background(), customer)
	return created
}
