package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/infrastructure/metrics"
	"github.com/pmholt/budgeteer/internal/projection"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	summaryCache    *SummaryCacheInvalidator
	clock           Clock
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	summaryCache *SummaryCacheInvalidator,
	clock Clock,
) *AccountUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &AccountUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		summaryCache:    summaryCache,
		clock:           clock,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID        string
	Name           string
	DisplayName    string
	Category       domain.AccountCategory
	InitialBalance decimal.Decimal
}

// CreateAccount creates a new account. The provided opening balance is not
// stored as the account baseline: the baseline stays zero and the opening
// amount is posted as a confirmed "Initial Balance" transaction, so the full
// balance history lives in the ledger.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.DisplayName); err != nil {
		return nil, err
	}
	if input.Category == "" {
		input.Category = domain.CategoryChecking
	}
	if !input.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if err := domain.ValidateAmount(input.InitialBalance); err != nil {
		return nil, err
	}

	now := uc.clock().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		DisplayName:    input.DisplayName,
		Category:       input.Category,
		InitialBalance: decimal.Zero,
		OwnerID:        input.OwnerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if !input.InitialBalance.IsZero() {
		opening := uc.openingTransaction(account, input.InitialBalance, now)
		if err := uc.transactionRepo.CreateTx(ctx, tx, opening); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.AccountsCreated.Inc()
	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return account, nil
}

func (uc *AccountUseCase) openingTransaction(account *domain.Account, amount decimal.Decimal, now time.Time) *domain.Transaction {
	txType := domain.TypeCredit
	if amount.IsNegative() {
		txType = domain.TypeDebit
	}

	return &domain.Transaction{
		ID:          uc.idGen.Generate(),
		Date:        domain.DateOf(now),
		Amount:      domain.NormalizeAmount(amount, txType),
		Type:        txType,
		Status:      domain.StatusConfirmed,
		Description: "Initial Balance",
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, ownerID, id)
}

// ListAccounts lists the owner's accounts, optionally including archived
// ones.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, ownerID, includeArchived)
}

// UpdateAccountInput represents a partial account update. Nil fields are left
// unchanged.
type UpdateAccountInput struct {
	OwnerID     string
	ID          string
	Name        *string
	DisplayName *string
	Category    *domain.AccountCategory
	// ResetDate and ResetAmount together request a manual balance reset.
	ResetDate   *domain.Date
	ResetAmount *decimal.Decimal
}

// UpdateAccount applies a partial update. When a balance reset is requested,
// the baseline becomes zero as of the reset date and a confirmed "Balance
// Adjustment" transaction for the target amount is posted on that date, so
// the account's computed balance lands on the requested value.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.OwnerID, input.ID)
	if err != nil {
		return nil, err
	}
	if account.Archived {
		return nil, domain.ErrAccountArchived
	}

	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		account.Name = *input.Name
	}
	if input.DisplayName != nil {
		if err := domain.ValidateName(*input.DisplayName); err != nil {
			return nil, err
		}
		account.DisplayName = *input.DisplayName
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, domain.ErrInvalidCategory
		}
		account.Category = *input.Category
	}

	now := uc.clock().UTC()
	var adjustment *domain.Transaction
	if input.ResetDate != nil && input.ResetAmount != nil {
		if err := domain.ValidateAmount(*input.ResetAmount); err != nil {
			return nil, err
		}

		resetDate := *input.ResetDate
		zero := decimal.Zero
		account.ResetDate = &resetDate
		account.ResetAmount = &zero

		adjustment = uc.adjustmentTransaction(account, *input.ResetAmount, resetDate, now)
	}
	account.UpdatedAt = now

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if adjustment != nil {
		if err := uc.transactionRepo.CreateTx(ctx, tx, adjustment); err != nil {
			return nil, err
		}
	}
	if err := uc.accountRepo.UpdateTx(ctx, tx, account); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if adjustment != nil {
		metrics.BalanceResets.Inc()
	}
	uc.summaryCache.Invalidate(ctx, input.OwnerID)

	return account, nil
}

func (uc *AccountUseCase) adjustmentTransaction(account *domain.Account, target decimal.Decimal, date domain.Date, now time.Time) *domain.Transaction {
	txType := domain.TypeCredit
	if target.IsNegative() {
		txType = domain.TypeDebit
	}

	return &domain.Transaction{
		ID:          uc.idGen.Generate(),
		Date:        date,
		Amount:      domain.NormalizeAmount(target, txType),
		Type:        txType,
		Status:      domain.StatusConfirmed,
		Description: "Balance Adjustment",
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ArchiveAccount soft-deletes an account. Its transactions stay in place.
func (uc *AccountUseCase) ArchiveAccount(ctx context.Context, ownerID, id string) error {
	if err := uc.accountRepo.Archive(ctx, ownerID, id); err != nil {
		return err
	}

	metrics.AccountsArchived.Inc()
	uc.summaryCache.Invalidate(ctx, ownerID)

	return nil
}

// AccountSummary pairs an account with its computed balance.
type AccountSummary struct {
	Account *domain.Account
	Balance decimal.Decimal
}

// AccountSummaries returns every non-archived account with its current
// balance, Savings included (this is the per-account view, not the spendable
// total).
func (uc *AccountUseCase) AccountSummaries(ctx context.Context, ownerID string) ([]AccountSummary, error) {
	accounts, err := uc.accountRepo.List(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.List(ctx, ownerID, 0)
	if err != nil {
		return nil, err
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, AccountSummary{
			Account: a,
			Balance: projection.AccountBalance(a, transactions),
		})
	}

	return summaries, nil
}
