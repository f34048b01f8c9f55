package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/infrastructure/metrics"
)

// RecurringUseCase handles recurring bill and paycheck definitions.
type RecurringUseCase struct {
	txManager       TransactionManager
	recurringRepo   RecurringRepository
	transactionRepo TransactionRepository
	accountRepo     AccountRepository
	idGen           IDGenerator
	retrier         Retrier
	summaryCache    *SummaryCacheInvalidator
	clock           Clock
}

// NewRecurringUseCase creates a new RecurringUseCase.
func NewRecurringUseCase(
	txManager TransactionManager,
	recurringRepo RecurringRepository,
	transactionRepo TransactionRepository,
	accountRepo AccountRepository,
	idGen IDGenerator,
	retrier Retrier,
	summaryCache *SummaryCacheInvalidator,
	clock Clock,
) *RecurringUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &RecurringUseCase{
		txManager:       txManager,
		recurringRepo:   recurringRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		idGen:           idGen,
		retrier:         retrier,
		summaryCache:    summaryCache,
		clock:           clock,
	}
}

// CreateRecurringInput represents input for creating a recurring definition.
type CreateRecurringInput struct {
	OwnerID         string
	Name            string
	Kind            domain.RecurringKind
	EstimatedAmount decimal.Decimal
	AnchorDate      domain.Date
	Rule            domain.Rule
	IsRecurring     bool
	AccountID       string
}

// CreateRecurring creates a recurring bill or paycheck definition. The
// estimated amount is stored as a positive magnitude; the sign is applied
// from the kind whenever an occurrence is materialized.
func (uc *RecurringUseCase) CreateRecurring(ctx context.Context, input CreateRecurringInput) (*domain.Recurring, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}
	if input.AnchorDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if err := domain.ValidateAmount(input.EstimatedAmount); err != nil {
		return nil, err
	}

	if input.AccountID != "" {
		if _, err := uc.accountRepo.GetByID(ctx, input.OwnerID, input.AccountID); err != nil {
			return nil, err
		}
	}

	now := uc.clock().UTC()
	recurring := &domain.Recurring{
		ID:              uc.idGen.Generate(),
		Name:            input.Name,
		Kind:            input.Kind,
		EstimatedAmount: input.EstimatedAmount.Abs(),
		AnchorDate:      input.AnchorDate,
		Rule:            input.Rule,
		IsRecurring:     input.IsRecurring,
		AccountID:       input.AccountID,
		OwnerID:         input.OwnerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.recurringRepo.Create(ctx, recurring); err != nil {
		return nil, err
	}

	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return recurring, nil
}

// GetRecurring retrieves a recurring definition by ID.
func (uc *RecurringUseCase) GetRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	return uc.recurringRepo.GetByID(ctx, ownerID, id)
}

// ListRecurrings lists the owner's non-archived recurring definitions,
// optionally filtered by kind.
func (uc *RecurringUseCase) ListRecurrings(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error) {
	if kind != "" && !kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}
	return uc.recurringRepo.List(ctx, ownerID, kind)
}

// UpdateRecurringInput represents a partial update to a recurring
// definition. Nil fields are left unchanged.
type UpdateRecurringInput struct {
	OwnerID         string
	ID              string
	Name            *string
	EstimatedAmount *decimal.Decimal
	AnchorDate      *domain.Date
	Rule            *domain.Rule
	IsRecurring     *bool
	AccountID       *string
}

// UpdateRecurring applies a partial update.
func (uc *RecurringUseCase) UpdateRecurring(ctx context.Context, input UpdateRecurringInput) (*domain.Recurring, error) {
	recurring, err := uc.recurringRepo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		recurring.Name = *input.Name
	}
	if input.EstimatedAmount != nil {
		if err := domain.ValidateAmount(*input.EstimatedAmount); err != nil {
			return nil, err
		}
		recurring.EstimatedAmount = input.EstimatedAmount.Abs()
	}
	if input.AnchorDate != nil {
		if input.AnchorDate.IsZero() {
			return nil, domain.ErrInvalidDate
		}
		recurring.AnchorDate = *input.AnchorDate
	}
	if input.Rule != nil {
		recurring.Rule = *input.Rule
	}
	if input.IsRecurring != nil {
		recurring.IsRecurring = *input.IsRecurring
	}
	if input.AccountID != nil {
		if *input.AccountID != "" {
			if _, err := uc.accountRepo.GetByID(ctx, input.OwnerID, *input.AccountID); err != nil {
				return nil, err
			}
		}
		recurring.AccountID = *input.AccountID
	}
	recurring.UpdatedAt = uc.clock().UTC()

	if err := uc.recurringRepo.Update(ctx, recurring); err != nil {
		return nil, err
	}

	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return recurring, nil
}

// ArchiveRecurring soft-deletes a recurring definition. Transactions already
// confirmed from it stay in place.
func (uc *RecurringUseCase) ArchiveRecurring(ctx context.Context, ownerID, id string) error {
	if err := uc.recurringRepo.Archive(ctx, ownerID, id); err != nil {
		return err
	}

	uc.summaryCache.Invalidate(ctx, ownerID)

	return nil
}

// ConfirmRecurringInput represents input for confirming a recurring
// occurrence. Amount, Date and AccountID override the definition's
// estimated amount, anchor date and account when set.
type ConfirmRecurringInput struct {
	OwnerID   string
	ID        string
	Amount    *decimal.Decimal
	Date      *domain.Date
	AccountID *string
}

// ConfirmRecurring posts a confirmed transaction for the definition's
// current occurrence and, for repeating definitions, advances the anchor to
// the next occurrence. The advance is a compare-and-set on the stored
// anchor: when a concurrent confirm or skip got there first the whole
// operation is retried against the fresh anchor, so the same occurrence
// can never be confirmed twice. A one-off definition posts its transaction
// and stays active until explicitly archived.
func (uc *RecurringUseCase) ConfirmRecurring(ctx context.Context, input ConfirmRecurringInput) (*domain.Transaction, error) {
	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}
	if input.AccountID != nil && *input.AccountID != "" {
		if _, err := uc.accountRepo.GetByID(ctx, input.OwnerID, *input.AccountID); err != nil {
			return nil, err
		}
	}

	var confirmed *domain.Transaction
	op := func() error {
		recurring, err := uc.recurringRepo.GetByID(ctx, input.OwnerID, input.ID)
		if err != nil {
			return err
		}

		amount := recurring.Magnitude()
		if input.Amount != nil {
			amount = *input.Amount
		}
		date := recurring.AnchorDate
		if input.Date != nil {
			date = *input.Date
		}
		accountID := recurring.AccountID
		if input.AccountID != nil {
			accountID = *input.AccountID
		}

		now := uc.clock().UTC()
		recurringID := recurring.ID
		transaction := &domain.Transaction{
			ID:          uc.idGen.Generate(),
			Date:        date,
			Amount:      domain.NormalizeAmount(amount, recurring.TransactionType()),
			Type:        recurring.TransactionType(),
			Status:      domain.StatusConfirmed,
			Description: recurring.Name,
			AccountID:   accountID,
			RecurringID: &recurringID,
			OwnerID:     input.OwnerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.transactionRepo.CreateTx(ctx, tx, transaction); err != nil {
			return err
		}

		if recurring.IsRecurring {
			next := recurring.Advance()
			err := uc.recurringRepo.AdvanceAnchor(ctx, tx, input.OwnerID, recurring.ID, recurring.AnchorDate, next)
			if err != nil {
				if errors.Is(err, domain.ErrAnchorConflict) {
					metrics.AnchorConflicts.Inc()
				}
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		confirmed = transaction
		return nil
	}

	if err := uc.retrier.Retry(ctx, op); err != nil {
		return nil, err
	}

	metrics.RecurringsConfirmed.Inc()
	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return confirmed, nil
}

// SkipRecurring advances a repeating definition's anchor past the current
// occurrence without posting a transaction. Skipping a one-off definition
// archives it, since there is no later occurrence to move to. The advance
// uses the same compare-and-set as ConfirmRecurring.
func (uc *RecurringUseCase) SkipRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	var skipped *domain.Recurring
	op := func() error {
		recurring, err := uc.recurringRepo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if !recurring.IsRecurring {
			if err := uc.recurringRepo.Archive(ctx, ownerID, id); err != nil {
				return err
			}
			recurring.Archived = true
			skipped = recurring
			return nil
		}

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		next := recurring.Advance()
		if err := uc.recurringRepo.AdvanceAnchor(ctx, tx, ownerID, id, recurring.AnchorDate, next); err != nil {
			if errors.Is(err, domain.ErrAnchorConflict) {
				metrics.AnchorConflicts.Inc()
			}
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		recurring.AnchorDate = next
		skipped = recurring
		return nil
	}

	if err := uc.retrier.Retry(ctx, op); err != nil {
		return nil, err
	}

	metrics.RecurringsSkipped.Inc()
	uc.summaryCache.Invalidate(ctx, ownerID)

	return skipped, nil
}
