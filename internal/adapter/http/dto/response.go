package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResponse carries a freshly issued token and its user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AuthFromDomain converts a user and token to a response.
func AuthFromDomain(u *domain.User, token string) AuthResponse {
	return AuthResponse{
		Token: token,
		User:  UserResponse{ID: u.ID, Username: u.Username},
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	DisplayName    string           `json:"displayName"`
	Type           string           `json:"type"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	ResetDate      *domain.Date     `json:"balanceResetDate,omitempty"`
	ResetAmount    *decimal.Decimal `json:"balanceResetAmount,omitempty"`
	Archived       bool             `json:"archived"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		DisplayName:    a.DisplayName,
		Type:           string(a.Category),
		InitialBalance: a.InitialBalance,
		ResetDate:      a.ResetDate,
		ResetAmount:    a.ResetAmount,
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}

	return result
}

// AccountSummaryResponse is an account with its computed current balance.
type AccountSummaryResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName"`
	Type        string          `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
}

// AccountSummariesFromUseCase converts per-account balances to responses.
func AccountSummariesFromUseCase(summaries []usecase.AccountSummary) []AccountSummaryResponse {
	result := make([]AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		result[i] = AccountSummaryResponse{
			ID:          s.Account.ID,
			Name:        s.Account.Name,
			DisplayName: s.Account.DisplayName,
			Type:        string(s.Account.Category),
			Balance:     s.Balance,
		}
	}

	return result
}

// TransactionResponse represents a stored transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Date        domain.Date     `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	RecurringID *string         `json:"recurringId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Date:        t.Date,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Description: t.Description,
		RecurringID: t.RecurringID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}

	return result
}

// LedgerEntryResponse is a row in the merged ledger view. Synthetic rows are
// placeholders for due recurring items that have not been confirmed yet.
type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	AccountName string          `json:"accountName"`
	Date        domain.Date     `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	RecurringID *string         `json:"recurringId,omitempty"`
	Synthetic   bool            `json:"synthetic"`
}

// LedgerFromUseCase converts merged ledger entries to responses.
func LedgerFromUseCase(entries []usecase.LedgerEntry) []LedgerEntryResponse {
	result := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = LedgerEntryResponse{
			ID:          e.ID,
			AccountID:   e.AccountID,
			AccountName: e.AccountName,
			Date:        e.Date,
			Amount:      e.Amount,
			Type:        string(e.Type),
			Status:      string(e.Status),
			Description: e.Description,
			RecurringID: e.RecurringID,
			Synthetic:   e.Synthetic,
		}
	}

	return result
}

// RecurringResponse represents a recurring definition in API responses.
type RecurringResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
	StartDate       domain.Date     `json:"startDate"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringType   string          `json:"recurringType"`
	AccountID       string          `json:"accountId,omitempty"`
	Archived        bool            `json:"archived"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// RecurringFromDomain converts a domain recurring to a response.
func RecurringFromDomain(r *domain.Recurring) *RecurringResponse {
	return &RecurringResponse{
		ID:              r.ID,
		Name:            r.Name,
		Type:            string(r.Kind),
		EstimatedAmount: r.EstimatedAmount,
		StartDate:       r.AnchorDate,
		IsRecurring:     r.IsRecurring,
		RecurringType:   string(r.Rule),
		AccountID:       r.AccountID,
		Archived:        r.Archived,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// RecurringsFromDomain converts domain recurrings to responses.
func RecurringsFromDomain(recurrings []*domain.Recurring) []*RecurringResponse {
	result := make([]*RecurringResponse, len(recurrings))
	for i, r := range recurrings {
		result[i] = RecurringFromDomain(r)
	}

	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
