package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType labels the direction of a transaction. It is used only to
// normalize the amount sign, not as a second source of truth.
type TransactionType string

const (
	TypeDebit  TransactionType = "Debit"
	TypeCredit TransactionType = "Credit"
)

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return t == TypeDebit || t == TypeCredit
}

// TransactionStatus is the posting state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
)

// IsValid checks if the status is known.
func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Transaction is a posted ledger row. Amounts are signed: negative for
// debits/outflows, positive for credits/inflows.
type Transaction struct {
	ID          string
	Date        Date
	Amount      decimal.Decimal
	Type        TransactionType
	Status      TransactionStatus
	Description string
	AccountID   string
	RecurringID *string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeAmount forces the amount sign to agree with the transaction type:
// debits negative, credits positive. Applied on every create and update.
func NormalizeAmount(amount decimal.Decimal, txType TransactionType) decimal.Decimal {
	switch txType {
	case TypeDebit:
		return amount.Abs().Neg()
	case TypeCredit:
		return amount.Abs()
	default:
		return amount
	}
}
