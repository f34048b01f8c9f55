package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/pmholt/budgeteer/internal/domain"
	genmocks "github.com/pmholt/budgeteer/internal/mocks"
	"github.com/pmholt/budgeteer/internal/usecase"
	"github.com/pmholt/budgeteer/internal/usecase/mocks"
)

func newRecurringUseCase(recurringRepo *mocks.MockRecurringRepository, txnRepo *mocks.MockTransactionRepository, accountRepo *mocks.MockAccountRepository, clock usecase.Clock) *usecase.RecurringUseCase {
	return usecase.NewRecurringUseCase(
		&mocks.MockTransactionManager{},
		recurringRepo,
		txnRepo,
		accountRepo,
		&mocks.MockIDGenerator{},
		&mocks.MockRetrier{},
		usecase.NewSummaryCacheInvalidator(nil),
		clock,
	)
}

func seedRecurring(t *testing.T, repo *mocks.MockRecurringRepository, r *domain.Recurring) {
	t.Helper()
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("seed recurring: %v", err)
	}
}

func TestRecurringUseCase_ConfirmRecurring_AdvancesAnchor(t *testing.T) {
	recurringRepo := mocks.NewMockRecurringRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newRecurringUseCase(recurringRepo, txnRepo, mocks.NewMockAccountRepository(), fixedClock(t, "2025-09-01"))

	seedRecurring(t, recurringRepo, &domain.Recurring{
		ID:              "rec-1",
		Name:            "Rent",
		Kind:            domain.KindBill,
		EstimatedAmount: decimal.NewFromInt(1200),
		AnchorDate:      mustParseDate(t, "2025-09-01"),
		Rule:            domain.RuleMonthly,
		IsRecurring:     true,
		OwnerID:         "user-1",
	})

	confirmed, err := uc.ConfirmRecurring(context.Background(), usecase.ConfirmRecurringInput{
		OwnerID: "user-1",
		ID:      "rec-1",
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if confirmed.Status != domain.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", confirmed.Status)
	}
	if !confirmed.Amount.Equal(decimal.NewFromInt(-1200)) {
		t.Errorf("amount = %s, want -1200 for a bill", confirmed.Amount)
	}
	if confirmed.RecurringID == nil || *confirmed.RecurringID != "rec-1" {
		t.Errorf("recurring link = %v, want rec-1", confirmed.RecurringID)
	}
	if confirmed.Description != "Rent" {
		t.Errorf("description = %q, want Rent", confirmed.Description)
	}

	after, err := recurringRepo.GetByID(context.Background(), "user-1", "rec-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := mustParseDate(t, "2025-10-01")
	if !after.AnchorDate.Equal(want) {
		t.Errorf("anchor after confirm = %s, want %s", after.AnchorDate, want)
	}
}

func TestRecurringUseCase_ConfirmRecurring_OneOffStaysActive(t *testing.T) {
	recurringRepo := mocks.NewMockRecurringRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newRecurringUseCase(recurringRepo, txnRepo, mocks.NewMockAccountRepository(), fixedClock(t, "2025-09-01"))

	anchor := mustParseDate(t, "2025-09-01")
	seedRecurring(t, recurringRepo, &domain.Recurring{
		ID:              "rec-once",
		Name:            "Car Repair",
		Kind:            domain.KindBill,
		EstimatedAmount: decimal.NewFromInt(650),
		AnchorDate:      anchor,
		IsRecurring:     false,
		OwnerID:         "user-1",
	})

	if _, err := uc.ConfirmRecurring(context.Background(), usecase.ConfirmRecurringInput{
		OwnerID: "user-1",
		ID:      "rec-once",
	}); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	after, err := recurringRepo.GetByID(context.Background(), "user-1", "rec-once")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !after.AnchorDate.Equal(anchor) {
		t.Errorf("one-off anchor moved to %s, want unchanged %s", after.AnchorDate, anchor)
	}
	if after.Archived {
		t.Error("one-off should stay active after confirm")
	}
}

func TestRecurringUseCase_ConfirmRecurring_Overrides(t *testing.T) {
	recurringRepo := mocks.NewMockRecurringRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	accountRepo := mocks.NewMockAccountRepository()
	uc := newRecurringUseCase(recurringRepo, txnRepo, accountRepo, fixedClock(t, "2025-09-01"))

	if err := accountRepo.Create(context.Background(), &domain.Account{ID: "acc-1", Name: "main", OwnerID: "user-1"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	seedRecurring(t, recurringRepo, &domain.Recurring{
		ID:              "rec-pay",
		Name:            "Salary",
		Kind:            domain.KindPaycheck,
		EstimatedAmount: decimal.NewFromInt(2000),
		AnchorDate:      mustParseDate(t, "2025-09-01"),
		Rule:            domain.RuleBiWeekly,
		IsRecurring:     true,
		OwnerID:         "user-1",
	})

	actual := decimal.NewFromInt(2135)
	date := mustParseDate(t, "2025-09-02")
	accountID := "acc-1"
	confirmed, err := uc.ConfirmRecurring(context.Background(), usecase.ConfirmRecurringInput{
		OwnerID:   "user-1",
		ID:        "rec-pay",
		Amount:    &actual,
		Date:      &date,
		AccountID: &accountID,
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if !confirmed.Amount.Equal(decimal.NewFromInt(2135)) {
		t.Errorf("amount = %s, want 2135 for a paycheck", confirmed.Amount)
	}
	if !confirmed.Date.Equal(date) {
		t.Errorf("date = %s, want %s", confirmed.Date, date)
	}
	if confirmed.AccountID != "acc-1" {
		t.Errorf("account = %q, want acc-1", confirmed.AccountID)
	}
}

// A lost compare-and-set race must be retried against the re-read anchor,
// not replayed with the stale one.
func TestRecurringUseCase_ConfirmRecurring_RetriesAnchorConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recurringRepo := genmocks.NewMockRecurringRepository(ctrl)
	txnRepo := genmocks.NewMockTransactionRepository(ctrl)

	firstAnchor := mustParseDate(t, "2025-09-01")
	secondAnchor := mustParseDate(t, "2025-10-01")

	stale := &domain.Recurring{
		ID:              "rec-1",
		Name:            "Rent",
		Kind:            domain.KindBill,
		EstimatedAmount: decimal.NewFromInt(1200),
		AnchorDate:      firstAnchor,
		Rule:            domain.RuleMonthly,
		IsRecurring:     true,
		OwnerID:         "user-1",
	}
	fresh := *stale
	fresh.AnchorDate = secondAnchor

	gomock.InOrder(
		recurringRepo.EXPECT().GetByID(gomock.Any(), "user-1", "rec-1").Return(stale, nil),
		recurringRepo.EXPECT().AdvanceAnchor(gomock.Any(), gomock.Any(), "user-1", "rec-1", firstAnchor, secondAnchor).Return(domain.ErrAnchorConflict),
		recurringRepo.EXPECT().GetByID(gomock.Any(), "user-1", "rec-1").Return(&fresh, nil),
		recurringRepo.EXPECT().AdvanceAnchor(gomock.Any(), gomock.Any(), "user-1", "rec-1", secondAnchor, mustParseDate(t, "2025-11-01")).Return(nil),
	)
	txnRepo.EXPECT().CreateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	uc := usecase.NewRecurringUseCase(
		&mocks.MockTransactionManager{},
		recurringRepo,
		txnRepo,
		mocks.NewMockAccountRepository(),
		&mocks.MockIDGenerator{},
		&mocks.MockRetrier{},
		usecase.NewSummaryCacheInvalidator(nil),
		fixedClock(t, "2025-09-01"),
	)

	confirmed, err := uc.ConfirmRecurring(context.Background(), usecase.ConfirmRecurringInput{
		OwnerID: "user-1",
		ID:      "rec-1",
	})
	if err != nil {
		t.Fatalf("confirm after retry: %v", err)
	}
	if !confirmed.Date.Equal(secondAnchor) {
		t.Errorf("confirmed date = %s, want the re-read anchor %s", confirmed.Date, secondAnchor)
	}
}

func TestRecurringUseCase_SkipRecurring(t *testing.T) {
	recurringRepo := mocks.NewMockRecurringRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newRecurringUseCase(recurringRepo, txnRepo, mocks.NewMockAccountRepository(), fixedClock(t, "2025-09-01"))

	seedRecurring(t, recurringRepo, &domain.Recurring{
		ID:              "rec-1",
		Name:            "Gym",
		Kind:            domain.KindBill,
		EstimatedAmount: decimal.NewFromInt(45),
		AnchorDate:      mustParseDate(t, "2025-09-05"),
		Rule:            domain.RuleMonthly,
		IsRecurring:     true,
		OwnerID:         "user-1",
	})

	skipped, err := uc.SkipRecurring(context.Background(), "user-1", "rec-1")
	if err != nil {
		t.Fatalf("skip: %v", err)
	}

	want := mustParseDate(t, "2025-10-05")
	if !skipped.AnchorDate.Equal(want) {
		t.Errorf("anchor after skip = %s, want %s", skipped.AnchorDate, want)
	}

	txns, _ := txnRepo.List(context.Background(), "user-1", 0)
	if len(txns) != 0 {
		t.Errorf("skip posted %d transactions, want none", len(txns))
	}
}

func TestRecurringUseCase_SkipRecurring_OneOffArchives(t *testing.T) {
	recurringRepo := mocks.NewMockRecurringRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	uc := newRecurringUseCase(recurringRepo, txnRepo, mocks.NewMockAccountRepository(), fixedClock(t, "2025-09-01"))

	seedRecurring(t, recurringRepo, &domain.Recurring{
		ID:              "rec-once",
		Name:            "Tax Bill",
		Kind:            domain.KindBill,
		EstimatedAmount: decimal.NewFromInt(300),
		AnchorDate:      mustParseDate(t, "2025-09-10"),
		IsRecurring:     false,
		OwnerID:         "user-1",
	})

	skipped, err := uc.SkipRecurring(context.Background(), "user-1", "rec-once")
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if !skipped.Archived {
		t.Error("skipping a one-off should archive it")
	}
}

func TestRecurringUseCase_CreateRecurring_NormalizesAmount(t *testing.T) {
	recurringRepo := mocks.NewMockRecurringRepository()
	uc := newRecurringUseCase(recurringRepo, mocks.NewMockTransactionRepository(), mocks.NewMockAccountRepository(), fixedClock(t, "2025-09-01"))

	created, err := uc.CreateRecurring(context.Background(), usecase.CreateRecurringInput{
		OwnerID:         "user-1",
		Name:            "Internet",
		Kind:            domain.KindBill,
		EstimatedAmount: decimal.NewFromInt(-80),
		AnchorDate:      mustParseDate(t, "2025-09-03"),
		Rule:            domain.RuleMonthly,
		IsRecurring:     true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.EstimatedAmount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("stored magnitude = %s, want 80", created.EstimatedAmount)
	}
}
