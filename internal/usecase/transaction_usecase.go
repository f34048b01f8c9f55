package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
)

// defaultLedgerLimit caps the merged ledger listing.
const defaultLedgerLimit = 500

// TransactionUseCase handles transaction business logic.
type TransactionUseCase struct {
	transactionRepo TransactionRepository
	accountRepo     AccountRepository
	recurringRepo   RecurringRepository
	idGen           IDGenerator
	summaryCache    *SummaryCacheInvalidator
	clock           Clock
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	transactionRepo TransactionRepository,
	accountRepo AccountRepository,
	recurringRepo RecurringRepository,
	idGen IDGenerator,
	summaryCache *SummaryCacheInvalidator,
	clock Clock,
) *TransactionUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		recurringRepo:   recurringRepo,
		idGen:           idGen,
		summaryCache:    summaryCache,
		clock:           clock,
	}
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	OwnerID     string
	Date        domain.Date
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Status      domain.TransactionStatus
	Description string
	AccountID   string
}

// CreateTransaction records a transaction. The stored amount is always
// re-signed from the type: debits negative, credits positive, whatever sign
// the caller sent.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidType
	}
	if input.Status == "" {
		input.Status = domain.StatusPending
	}
	if !input.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.AccountID != "" {
		account, err := uc.accountRepo.GetByID(ctx, input.OwnerID, input.AccountID)
		if err != nil {
			return nil, err
		}
		if account.Archived {
			return nil, domain.ErrAccountArchived
		}
	}

	now := uc.clock().UTC()
	transaction := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		Date:        input.Date,
		Amount:      domain.NormalizeAmount(input.Amount, input.Type),
		Type:        input.Type,
		Status:      input.Status,
		Description: input.Description,
		AccountID:   input.AccountID,
		OwnerID:     input.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return transaction, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, ownerID, id)
}

// UpdateTransactionInput represents a partial transaction update. Nil fields
// are left unchanged.
type UpdateTransactionInput struct {
	OwnerID     string
	ID          string
	Date        *domain.Date
	Amount      *decimal.Decimal
	Type        *domain.TransactionType
	Status      *domain.TransactionStatus
	Description *string
	AccountID   *string
}

// UpdateTransaction applies a partial update, re-signing the amount when
// either the amount or the type changes.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		transaction.Date = *input.Date
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, domain.ErrInvalidType
		}
		transaction.Type = *input.Type
	}
	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}
	if input.Amount != nil || input.Type != nil {
		transaction.Amount = domain.NormalizeAmount(transaction.Amount, transaction.Type)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		transaction.Status = *input.Status
	}
	if input.Description != nil {
		transaction.Description = *input.Description
	}
	if input.AccountID != nil {
		if *input.AccountID != "" {
			if _, err := uc.accountRepo.GetByID(ctx, input.OwnerID, *input.AccountID); err != nil {
				return nil, err
			}
		}
		transaction.AccountID = *input.AccountID
	}
	transaction.UpdatedAt = uc.clock().UTC()

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return transaction, nil
}

// DeleteTransaction removes a transaction.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := uc.transactionRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	uc.summaryCache.Invalidate(ctx, ownerID)

	return nil
}

// ListByAccount lists an account's transactions.
func (uc *TransactionUseCase) ListByAccount(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error) {
	return uc.transactionRepo.ListByAccount(ctx, ownerID, accountID)
}

// LedgerEntry is a row in the merged ledger view: either a stored
// transaction or a synthetic placeholder for a due recurring item that has
// not been confirmed yet.
type LedgerEntry struct {
	ID          string
	Date        domain.Date
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Status      domain.TransactionStatus
	Description string
	AccountID   string
	AccountName string
	RecurringID *string
	Synthetic   bool
}

// ListLedger returns the owner's transactions merged with synthetic pending
// rows for every non-archived recurring item whose anchor date has arrived.
// Synthetic rows carry the recurring's ID and an "(unassigned)" account name
// so the client can tell them apart from stored rows. Entries are sorted by
// date descending, newest first, capped at limit (500 when limit <= 0).
func (uc *TransactionUseCase) ListLedger(ctx context.Context, ownerID string, limit int) ([]LedgerEntry, error) {
	if limit <= 0 || limit > defaultLedgerLimit {
		limit = defaultLedgerLimit
	}

	transactions, err := uc.transactionRepo.List(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.List(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.DisplayName
	}

	entries := make([]LedgerEntry, 0, len(transactions))
	for _, t := range transactions {
		name := names[t.AccountID]
		if name == "" {
			name = "(unassigned)"
		}
		entries = append(entries, LedgerEntry{
			ID:          t.ID,
			Date:        t.Date,
			Amount:      t.Amount,
			Type:        t.Type,
			Status:      t.Status,
			Description: t.Description,
			AccountID:   t.AccountID,
			AccountName: name,
			RecurringID: t.RecurringID,
		})
	}

	synthetic, err := uc.syntheticEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	entries = append(entries, synthetic...)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// syntheticEntries builds one pending placeholder per due recurring item.
func (uc *TransactionUseCase) syntheticEntries(ctx context.Context, ownerID string) ([]LedgerEntry, error) {
	recurrings, err := uc.recurringRepo.List(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}

	today := domain.DateOf(uc.clock())
	entries := make([]LedgerEntry, 0, len(recurrings))
	for _, r := range recurrings {
		if r.AnchorDate.IsZero() || r.AnchorDate.After(today) {
			continue
		}

		id := r.ID
		entries = append(entries, LedgerEntry{
			ID:          "recurring-" + r.ID,
			Date:        r.AnchorDate,
			Amount:      domain.NormalizeAmount(r.EstimatedAmount, r.TransactionType()),
			Type:        r.TransactionType(),
			Status:      domain.StatusPending,
			Description: r.Name,
			AccountName: "(unassigned)",
			RecurringID: &id,
			Synthetic:   true,
		})
	}

	return entries, nil
}
