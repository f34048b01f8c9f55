package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
	"github.com/pmholt/budgeteer/internal/usecase/mocks"
)

func TestSummaryUseCase_GetSummary(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	recurringRepo := mocks.NewMockRecurringRepository()

	if err := accountRepo.Create(context.Background(), &domain.Account{
		ID:       "acc-1",
		Name:     "main",
		Category: domain.CategoryChecking,
		OwnerID:  "user-1",
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := txnRepo.Create(context.Background(), &domain.Transaction{
		ID:        "txn-1",
		Date:      mustParseDate(t, "2025-08-20"),
		Amount:    decimal.NewFromInt(1000),
		Type:      domain.TypeCredit,
		Status:    domain.StatusConfirmed,
		AccountID: "acc-1",
		OwnerID:   "user-1",
	}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	uc := usecase.NewSummaryUseCase(accountRepo, txnRepo, recurringRepo, nil, 0, fixedClock(t, "2025-08-28"))

	summary, err := uc.GetSummary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}

	if !summary.CurrentBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("current balance = %s, want 1000", summary.CurrentBalance)
	}
	// No paychecks: projection window is today plus twenty days.
	if !summary.UpcomingUpperDate.Equal(mustParseDate(t, "2025-09-17")) {
		t.Errorf("upper date = %s, want 2025-09-17", summary.UpcomingUpperDate)
	}
}

func TestSummaryUseCase_GetSummary_CachesPerUser(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	recurringRepo := mocks.NewMockRecurringRepository()
	cache := mocks.NewMockCache()

	listCalls := 0
	accountRepo.ListFunc = func(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error) {
		listCalls++
		return nil, nil
	}

	uc := usecase.NewSummaryUseCase(accountRepo, txnRepo, recurringRepo, cache, time.Minute, fixedClock(t, "2025-08-28"))

	if _, err := uc.GetSummary(context.Background(), "user-1"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := uc.GetSummary(context.Background(), "user-1"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if listCalls != 1 {
		t.Errorf("repository hit %d times, want 1 (second read served from cache)", listCalls)
	}

	// A different user never sees the cached result.
	if _, err := uc.GetSummary(context.Background(), "user-2"); err != nil {
		t.Fatalf("other user: %v", err)
	}
	if listCalls != 2 {
		t.Errorf("repository hit %d times, want 2", listCalls)
	}
}

func TestSummaryCacheInvalidator_DropsCachedSummary(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	recurringRepo := mocks.NewMockRecurringRepository()
	cache := mocks.NewMockCache()

	listCalls := 0
	accountRepo.ListFunc = func(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error) {
		listCalls++
		return nil, nil
	}

	uc := usecase.NewSummaryUseCase(accountRepo, txnRepo, recurringRepo, cache, time.Minute, fixedClock(t, "2025-08-28"))
	invalidator := usecase.NewSummaryCacheInvalidator(cache)

	if _, err := uc.GetSummary(context.Background(), "user-1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	invalidator.Invalidate(context.Background(), "user-1")

	if _, err := uc.GetSummary(context.Background(), "user-1"); err != nil {
		t.Fatalf("after invalidate: %v", err)
	}
	if listCalls != 2 {
		t.Errorf("repository hit %d times, want 2 after invalidation", listCalls)
	}
}

func TestSummaryCacheInvalidator_NilSafe(t *testing.T) {
	var invalidator *usecase.SummaryCacheInvalidator
	invalidator.Invalidate(context.Background(), "user-1")

	usecase.NewSummaryCacheInvalidator(nil).Invalidate(context.Background(), "user-1")
}
