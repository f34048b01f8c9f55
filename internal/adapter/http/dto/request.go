package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"displayName"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:        ownerID,
		Name:           r.Name,
		DisplayName:    r.DisplayName,
		Category:       domain.AccountCategory(r.Type),
		InitialBalance: r.InitialBalance,
	}
}

// UpdateAccountRequest represents a partial account update. Setting both
// reset fields requests a manual balance reset.
type UpdateAccountRequest struct {
	Name               *string          `json:"name"`
	DisplayName        *string          `json:"displayName"`
	Type               *string          `json:"type"`
	BalanceResetDate   *domain.Date     `json:"balanceResetDate"`
	BalanceResetAmount *decimal.Decimal `json:"balanceResetAmount"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(ownerID, id string) usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		OwnerID:     ownerID,
		ID:          id,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		ResetDate:   r.BalanceResetDate,
		ResetAmount: r.BalanceResetAmount,
	}
	if r.Type != nil {
		category := domain.AccountCategory(*r.Type)
		input.Category = &category
	}

	return input
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	AccountID   string          `json:"accountId"`
	Date        domain.Date     `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(ownerID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		OwnerID:     ownerID,
		Date:        r.Date,
		Amount:      r.Amount,
		Type:        domain.TransactionType(r.Type),
		Status:      domain.TransactionStatus(r.Status),
		Description: r.Description,
		AccountID:   r.AccountID,
	}
}

// UpdateTransactionRequest represents a partial transaction update.
type UpdateTransactionRequest struct {
	AccountID   *string          `json:"accountId"`
	Date        *domain.Date     `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type"`
	Status      *string          `json:"status"`
	Description *string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(ownerID, id string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		OwnerID:     ownerID,
		ID:          id,
		Date:        r.Date,
		Amount:      r.Amount,
		Type:        transactionTypePtr(r.Type),
		Status:      transactionStatusPtr(r.Status),
		Description: r.Description,
		AccountID:   r.AccountID,
	}
}

// CreateRecurringRequest represents a request to create a recurring bill or
// paycheck definition. The kind travels in Type; Kind is accepted as an
// alias. StartDate is the wire name for the anchor date.
type CreateRecurringRequest struct {
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Kind            string          `json:"kind"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
	StartDate       domain.Date     `json:"startDate"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringType   string          `json:"recurringType"`
	AccountID       string          `json:"accountId"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRecurringRequest) ToUseCaseInput(ownerID string) usecase.CreateRecurringInput {
	kind := r.Type
	if kind == "" {
		kind = r.Kind
	}

	return usecase.CreateRecurringInput{
		OwnerID:         ownerID,
		Name:            r.Name,
		Kind:            domain.RecurringKind(kind),
		EstimatedAmount: r.EstimatedAmount,
		AnchorDate:      r.StartDate,
		Rule:            domain.Rule(r.RecurringType),
		IsRecurring:     r.IsRecurring,
		AccountID:       r.AccountID,
	}
}

// CreateBillRequest represents the bills convenience view: amount instead of
// estimatedAmount, the kind implied by the route.
type CreateBillRequest struct {
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	StartDate     domain.Date     `json:"startDate"`
	IsRecurring   bool            `json:"isRecurring"`
	RecurringType string          `json:"recurringType"`
	AccountID     string          `json:"accountId"`
}

// ToUseCaseInput converts to use case input with the given kind.
func (r *CreateBillRequest) ToUseCaseInput(ownerID string, kind domain.RecurringKind) usecase.CreateRecurringInput {
	return usecase.CreateRecurringInput{
		OwnerID:         ownerID,
		Name:            r.Name,
		Kind:            kind,
		EstimatedAmount: r.Amount,
		AnchorDate:      r.StartDate,
		Rule:            domain.Rule(r.RecurringType),
		IsRecurring:     r.IsRecurring,
		AccountID:       r.AccountID,
	}
}

// UpdateRecurringRequest represents a partial recurring update.
type UpdateRecurringRequest struct {
	Name            *string          `json:"name"`
	EstimatedAmount *decimal.Decimal `json:"estimatedAmount"`
	StartDate       *domain.Date     `json:"startDate"`
	IsRecurring     *bool            `json:"isRecurring"`
	RecurringType   *string          `json:"recurringType"`
	AccountID       *string          `json:"accountId"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateRecurringRequest) ToUseCaseInput(ownerID, id string) usecase.UpdateRecurringInput {
	input := usecase.UpdateRecurringInput{
		OwnerID:         ownerID,
		ID:              id,
		Name:            r.Name,
		EstimatedAmount: r.EstimatedAmount,
		AnchorDate:      r.StartDate,
		IsRecurring:     r.IsRecurring,
		AccountID:       r.AccountID,
	}
	if r.RecurringType != nil {
		rule := domain.Rule(*r.RecurringType)
		input.Rule = &rule
	}

	return input
}

// ConfirmRecurringRequest represents overrides for confirming the current
// occurrence of a recurring definition. Empty fields fall back to the
// definition's values.
type ConfirmRecurringRequest struct {
	Date      *domain.Date     `json:"date"`
	Amount    *decimal.Decimal `json:"amount"`
	AccountID *string          `json:"accountId"`
}

// ToUseCaseInput converts to use case input.
func (r *ConfirmRecurringRequest) ToUseCaseInput(ownerID, id string) usecase.ConfirmRecurringInput {
	return usecase.ConfirmRecurringInput{
		OwnerID:   ownerID,
		ID:        id,
		Amount:    r.Amount,
		Date:      r.Date,
		AccountID: r.AccountID,
	}
}

func transactionTypePtr(s *string) *domain.TransactionType {
	if s == nil {
		return nil
	}
	t := domain.TransactionType(*s)

	return &t
}

func transactionStatusPtr(s *string) *domain.TransactionStatus {
	if s == nil {
		return nil
	}
	st := domain.TransactionStatus(*s)

	return &st
}
