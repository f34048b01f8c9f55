package projection

import (
	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
)

// AccountBalance computes an account's current balance from its baseline plus
// posted transactions.
//
// With a manual reset recorded, the baseline is zero as of the reset date and
// only transactions dated on or after it count; the configured reset amount
// itself never enters the formula (it only shaped the adjustment transaction
// inserted at reset time). Without a reset, the initial balance plus every
// transaction applies. Transactions for other accounts or other owners are
// ignored.
func AccountBalance(account *domain.Account, transactions []*domain.Transaction) decimal.Decimal {
	balance := decimal.Zero
	if !account.HasReset() {
		balance = account.InitialBalance
	}

	for _, tx := range transactions {
		if tx.AccountID != account.ID || tx.OwnerID != account.OwnerID {
			continue
		}
		if account.HasReset() && tx.Date.Before(*account.ResetDate) {
			continue
		}
		balance = balance.Add(tx.Amount)
	}

	return balance
}

// CurrentBalance sums AccountBalance over all spendable accounts: archived
// accounts and Savings accounts (set-aside funds) are excluded.
func CurrentBalance(accounts []*domain.Account, transactions []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if !a.Spendable() {
			continue
		}
		total = total.Add(AccountBalance(a, transactions))
	}

	return total
}
