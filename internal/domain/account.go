package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountCategory distinguishes spendable accounts from set-aside funds.
type AccountCategory string

const (
	// CategoryChecking accounts count toward the spendable balance.
	CategoryChecking AccountCategory = "Checking"

	// CategorySavings accounts are set-aside funds, excluded from the
	// spendable balance used by projections.
	CategorySavings AccountCategory = "Savings"
)

// IsValid checks if the category is a known one.
func (c AccountCategory) IsValid() bool {
	return c == CategoryChecking || c == CategorySavings
}

// Account represents a user's bank account in the ledger.
//
// The balance baseline is InitialBalance plus all transactions. When a manual
// reset is recorded, the baseline becomes zero as of ResetDate and only
// transactions on or after that date are counted. At most one of the two
// baselines is effective at a time.
type Account struct {
	ID             string
	Name           string
	DisplayName    string
	Category       AccountCategory
	InitialBalance decimal.Decimal
	ResetDate      *Date
	ResetAmount    *decimal.Decimal
	Archived       bool
	OwnerID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasReset reports whether a manual balance reset supersedes the initial
// balance.
func (a *Account) HasReset() bool {
	return a.ResetDate != nil && a.ResetAmount != nil
}

// Spendable reports whether the account counts toward the current spendable
// balance.
func (a *Account) Spendable() bool {
	return !a.Archived && a.Category != CategorySavings
}
