package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/adapter/http/dto"
	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

type transactionServiceStub struct {
	createFn        func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	getFn           func(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	updateFn        func(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	deleteFn        func(ctx context.Context, ownerID, id string) error
	listByAccountFn func(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error)
	listLedgerFn    func(ctx context.Context, ownerID string, limit int) ([]usecase.LedgerEntry, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *transactionServiceStub) UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error) {
	return s.updateFn(ctx, input)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *transactionServiceStub) ListByAccount(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error) {
	return s.listByAccountFn(ctx, ownerID, accountID)
}

func (s *transactionServiceStub) ListLedger(ctx context.Context, ownerID string, limit int) ([]usecase.LedgerEntry, error) {
	return s.listLedgerFn(ctx, ownerID, limit)
}

func TestTransactionHandler_Create_PascalCaseAliases(t *testing.T) {
	var captured usecase.CreateTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{ID: "txn-1", Amount: decimal.NewFromInt(-50)}, nil
		},
	})

	// Older clients send PascalCase field names.
	body := `{"AccountId":"acc-1","Date":"2025-09-01","Amount":50,"Type":"Debit","Status":"confirmed","Description":"Groceries"}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.Date.String() != "2025-09-01" {
		t.Fatalf("expected aliases to be accepted, got %+v", captured)
	}
	if captured.Type != domain.TypeDebit || captured.Status != domain.StatusConfirmed {
		t.Fatalf("unexpected type/status: %+v", captured)
	}
}

func TestTransactionHandler_List_MergedLedger(t *testing.T) {
	recurringID := "rec-1"
	handler := NewTransactionHandler(&transactionServiceStub{
		listLedgerFn: func(ctx context.Context, ownerID string, limit int) ([]usecase.LedgerEntry, error) {
			return []usecase.LedgerEntry{
				{
					ID:          "recurring-rec-1",
					Amount:      decimal.NewFromInt(-1200),
					Type:        domain.TypeDebit,
					Status:      domain.StatusPending,
					Description: "Rent",
					AccountName: "(unassigned)",
					RecurringID: &recurringID,
					Synthetic:   true,
				},
				{
					ID:          "txn-1",
					Amount:      decimal.NewFromInt(-80),
					Type:        domain.TypeDebit,
					Status:      domain.StatusConfirmed,
					Description: "Groceries",
					AccountID:   "acc-1",
					AccountName: "Main Checking",
				},
			}, nil
		},
	})

	req := withOwner(httptest.NewRequest(http.MethodGet, "/api/transactions", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.LedgerEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp))
	}
	if !resp[0].Synthetic || resp[0].AccountName != "(unassigned)" {
		t.Fatalf("expected synthetic placeholder first, got %+v", resp[0])
	}
	if resp[1].Synthetic {
		t.Fatalf("stored row should not be synthetic: %+v", resp[1])
	}
}

func TestTransactionHandler_List_AccountFilter(t *testing.T) {
	var filteredBy string
	handler := NewTransactionHandler(&transactionServiceStub{
		listByAccountFn: func(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error) {
			filteredBy = accountID
			return []*domain.Transaction{{ID: "txn-1", AccountID: accountID}}, nil
		},
		listLedgerFn: func(ctx context.Context, ownerID string, limit int) ([]usecase.LedgerEntry, error) {
			t.Fatal("ListLedger should not be called with an account filter")
			return nil, nil
		},
	})

	req := withOwner(httptest.NewRequest(http.MethodGet, "/api/transactions?accountId=acc-7", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if filteredBy != "acc-7" {
		t.Fatalf("expected acc-7 filter, got %q", filteredBy)
	}
}

func TestTransactionHandler_Delete(t *testing.T) {
	deleted := false
	handler := NewTransactionHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, ownerID, id string) error {
			deleted = true
			return nil
		},
	})

	req := withOwner(httptest.NewRequest(http.MethodDelete, "/api/transactions/txn-1", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !deleted {
		t.Fatal("expected DeleteTransaction to be called")
	}
}
