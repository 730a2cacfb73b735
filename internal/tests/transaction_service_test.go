package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/corepay/transaction-service/internal/adapter/http/models"
	"github.com/corepay/transaction-service/internal/domain"
	"github.com/corepay/transaction-service/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testAccountID = "5aa1f5cf-13b1-4c44-9fd7-2be0d8a1c1ee"

var defaultThreshold = decimal.NewFromInt(100000)

func newTransactionService(repo *fakeTransactionRepo) (*services.TransactionService, *capturingPublisher) {
	publisher := &capturingPublisher{}
	return services.NewTransactionService(repo, publisher, defaultThreshold), publisher
}

func depositRequest(amount int64) models.TransactionRequest {
	return models.TransactionRequest{
		AccountID: testAccountID,
		Amount:    decimal.NewFromInt(amount),
	}
}

func TestDepositOnEmptyAccountSetsBalance(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)

	response, err := svc.Deposit(context.Background(), depositRequest(50))
	require.NoError(t, err)
	require.True(t, response.Success)
	require.NotNil(t, response.Data)

	assert.True(t, response.Data.BalanceAfter.Equal(decimal.NewFromInt(50)),
		"expected balance_after 50, got %s", response.Data.BalanceAfter)
	assert.Equal(t, string(domain.TransactionTypeDeposit), response.Data.Type)
	assert.True(t, strings.HasPrefix(response.Data.Reference, "DEP-"))
}

func TestLedgerKeepsRunningSum(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, depositRequest(100))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, depositRequest(40))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, depositRequest(25))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, depositRequest(30))
	require.NoError(t, err)

	// 100 - 40 + 25 - 30
	expected := decimal.NewFromInt(55)
	assert.True(t, repo.latestBalance(testAccountID).Equal(expected),
		"expected running sum %s, got %s", expected, repo.latestBalance(testAccountID))
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)

	for _, amount := range []int64{0, -10} {
		response, err := svc.Deposit(context.Background(), depositRequest(amount))
		require.Error(t, err, "amount %d must be rejected", amount)
		assert.False(t, response.Success)
		assert.Equal(t, "validation failed", response.Message)
	}

	assert.Equal(t, 0, repo.entryCount())
}

func TestWithdrawRejectsOverdraft(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, depositRequest(100))
	require.NoError(t, err)

	before := repo.entryCount()
	response, err := svc.Withdraw(ctx, depositRequest(150))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoOverdraft))
	assert.Contains(t, response.Errors, "NO_OVERDRAFT")

	assert.Equal(t, before, repo.entryCount(), "rejected withdrawal must not write a row")
	assert.True(t, repo.latestBalance(testAccountID).Equal(decimal.NewFromInt(100)))
}

func TestWithdrawUnknownAccount(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)

	response, err := svc.Withdraw(context.Background(), models.TransactionRequest{
		AccountID: "no-such-account",
		Amount:    decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRecordNotFound))
	assert.Equal(t, "Account not found", response.Message)
}

func TestConcurrentWithdrawalsOnlyOneSucceeds(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, depositRequest(100))
	require.NoError(t, err)

	results := make([]error, 2)
	group := new(errgroup.Group)
	for i := 0; i < 2; i++ {
		i := i
		group.Go(func() error {
			_, withdrawErr := svc.Withdraw(ctx, depositRequest(60))
			results[i] = withdrawErr
			return nil
		})
	}
	require.NoError(t, group.Wait())

	var succeeded, rejected int
	for _, result := range results {
		switch {
		case result == nil:
			succeeded++
		case errors.Is(result, domain.ErrNoOverdraft):
			rejected++
		default:
			t.Fatalf("unexpected withdrawal error: %v", result)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.True(t, repo.latestBalance(testAccountID).Equal(decimal.NewFromInt(40)),
		"expected final balance 40, got %s", repo.latestBalance(testAccountID))
}

func TestStatementReturnsNewestFirstPage(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)
	ctx := context.Background()

	// creation order produces balances 10, 25, 15
	_, err := svc.Deposit(ctx, depositRequest(10))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, depositRequest(15))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, depositRequest(10))
	require.NoError(t, err)

	response, err := svc.Statement(ctx, testAccountID, 2, 0)
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	require.Len(t, response.Data.Transactions, 2)

	assert.True(t, response.Data.Transactions[0].BalanceAfter.Equal(decimal.NewFromInt(15)))
	assert.True(t, response.Data.Transactions[1].BalanceAfter.Equal(decimal.NewFromInt(25)))
}

func TestStatementAppliesDefaultLimit(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := svc.Deposit(ctx, depositRequest(1))
		require.NoError(t, err)
	}

	response, err := svc.Statement(ctx, testAccountID, 0, 0)
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	assert.Equal(t, 50, response.Data.Limit)
	assert.Len(t, response.Data.Transactions, 50)
}

func TestReferencesAreUniqueUnderConcurrency(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)
	ctx := context.Background()

	const writers = 20
	references := make([]string, writers)
	group := new(errgroup.Group)
	for i := 0; i < writers; i++ {
		i := i
		group.Go(func() error {
			response, err := svc.Deposit(ctx, depositRequest(5))
			if err != nil {
				return err
			}
			references[i] = response.Data.Reference
			return nil
		})
	}
	require.NoError(t, group.Wait())

	seen := make(map[string]struct{}, writers)
	for _, reference := range references {
		require.True(t, strings.HasPrefix(reference, "DEP-"))
		_, duplicate := seen[reference]
		require.False(t, duplicate, "duplicate reference %s", reference)
		seen[reference] = struct{}{}
	}
}

func TestCounterpartyDefaultsToExternal(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, _ := newTransactionService(repo)

	response, err := svc.Deposit(context.Background(), depositRequest(20))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCounterparty, response.Data.Counterparty)

	named, err := svc.Deposit(context.Background(), models.TransactionRequest{
		AccountID:    testAccountID,
		Amount:       decimal.NewFromInt(20),
		Counterparty: "Payroll Inc",
	})
	require.NoError(t, err)
	assert.Equal(t, "Payroll Inc", named.Data.Counterparty)
}

func TestHighValueTransactionsAreFlagged(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc, publisher := newTransactionService(repo)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, depositRequest(150000))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, depositRequest(10))
	require.NoError(t, err)

	events := publisher.captured()
	require.Len(t, events, 2)
	assert.True(t, events[0].HighValue)
	assert.False(t, events[1].HighValue)
}

func TestNotificationFailureDoesNotAffectCommit(t *testing.T) {
	repo := newFakeTransactionRepo(testAccountID)
	svc := services.NewTransactionService(repo, failingPublisher{}, defaultThreshold)

	response, err := svc.Deposit(context.Background(), depositRequest(75))
	require.NoError(t, err)
	require.True(t, response.Success)
	assert.Equal(t, 1, repo.entryCount())
}
