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

type recurringServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateRecurringInput) (*domain.Recurring, error)
	getFn     func(ctx context.Context, ownerID, id string) (*domain.Recurring, error)
	listFn    func(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error)
	updateFn  func(ctx context.Context, input usecase.UpdateRecurringInput) (*domain.Recurring, error)
	archiveFn func(ctx context.Context, ownerID, id string) error
	confirmFn func(ctx context.Context, input usecase.ConfirmRecurringInput) (*domain.Transaction, error)
	skipFn    func(ctx context.Context, ownerID, id string) (*domain.Recurring, error)
}

func (s *recurringServiceStub) CreateRecurring(ctx context.Context, input usecase.CreateRecurringInput) (*domain.Recurring, error) {
	return s.createFn(ctx, input)
}

func (s *recurringServiceStub) GetRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *recurringServiceStub) ListRecurrings(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error) {
	return s.listFn(ctx, ownerID, kind)
}

func (s *recurringServiceStub) UpdateRecurring(ctx context.Context, input usecase.UpdateRecurringInput) (*domain.Recurring, error) {
	return s.updateFn(ctx, input)
}

func (s *recurringServiceStub) ArchiveRecurring(ctx context.Context, ownerID, id string) error {
	return s.archiveFn(ctx, ownerID, id)
}

func (s *recurringServiceStub) ConfirmRecurring(ctx context.Context, input usecase.ConfirmRecurringInput) (*domain.Transaction, error) {
	return s.confirmFn(ctx, input)
}

func (s *recurringServiceStub) SkipRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	return s.skipFn(ctx, ownerID, id)
}

func TestRecurringHandler_CreateBill_KindPinnedByRoute(t *testing.T) {
	var captured usecase.CreateRecurringInput
	handler := NewRecurringHandler(&recurringServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateRecurringInput) (*domain.Recurring, error) {
			captured = input
			return &domain.Recurring{ID: "rec-1", Kind: input.Kind}, nil
		},
	})

	body := `{"name":"Rent","amount":1200,"startDate":"2025-10-01","isRecurring":true,"recurringType":"Monthly"}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/bills", bytes.NewBufferString(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.CreateWithKind(domain.KindBill)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Kind != domain.KindBill {
		t.Fatalf("expected bill kind from route, got %q", captured.Kind)
	}
	if !captured.EstimatedAmount.Equal(decimal.NewFromInt(1200)) || captured.Rule != domain.RuleMonthly {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestRecurringHandler_Confirm_WithOverrides(t *testing.T) {
	var captured usecase.ConfirmRecurringInput
	handler := NewRecurringHandler(&recurringServiceStub{
		confirmFn: func(ctx context.Context, input usecase.ConfirmRecurringInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{
				ID:     "txn-1",
				Amount: decimal.NewFromInt(-1150),
				Status: domain.StatusConfirmed,
			}, nil
		},
	})

	body := `{"date":"2025-10-03","amount":1150,"accountId":"acc-2"}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/recurrings/rec-1/confirm", bytes.NewBufferString(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Confirm(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Amount == nil || !captured.Amount.Equal(decimal.NewFromInt(1150)) {
		t.Fatalf("expected amount override, got %+v", captured.Amount)
	}
	if captured.Date == nil || captured.Date.String() != "2025-10-03" {
		t.Fatalf("expected date override, got %+v", captured.Date)
	}
	if captured.AccountID == nil || *captured.AccountID != "acc-2" {
		t.Fatalf("expected account override, got %+v", captured.AccountID)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(domain.StatusConfirmed) {
		t.Fatalf("expected confirmed transaction, got %s", resp.Status)
	}
}

func TestRecurringHandler_Confirm_AnchorConflictMapsTo409(t *testing.T) {
	handler := NewRecurringHandler(&recurringServiceStub{
		confirmFn: func(ctx context.Context, input usecase.ConfirmRecurringInput) (*domain.Transaction, error) {
			return nil, domain.ErrAnchorConflict
		},
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/recurrings/rec-1/confirm", bytes.NewBufferString(`{}`)), "user-1")
	rec := httptest.NewRecorder()

	handler.Confirm(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRecurringHandler_Skip(t *testing.T) {
	handler := NewRecurringHandler(&recurringServiceStub{
		skipFn: func(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
			anchor, _ := domain.ParseDate("2025-11-01")
			return &domain.Recurring{ID: id, AnchorDate: anchor, IsRecurring: true}, nil
		},
	})

	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/recurrings/rec-1/skip", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.Skip(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.RecurringResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StartDate.String() != "2025-11-01" {
		t.Fatalf("expected advanced anchor in response, got %s", resp.StartDate)
	}
}

func TestRecurringHandler_List_KindFromQuery(t *testing.T) {
	var captured domain.RecurringKind
	handler := NewRecurringHandler(&recurringServiceStub{
		listFn: func(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error) {
			captured = kind
			return nil, nil
		},
	})

	req := withOwner(httptest.NewRequest(http.MethodGet, "/api/recurrings?kind=Paycheck", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured != domain.KindPaycheck {
		t.Fatalf("expected Paycheck filter, got %q", captured)
	}
}
