package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		txType domain.TransactionType
		want   string
	}{
		{"debit stores negative", "50", domain.TypeDebit, "-50"},
		{"debit already negative", "-50", domain.TypeDebit, "-50"},
		{"credit stores positive", "1200", domain.TypeCredit, "1200"},
		{"credit flips negative", "-1200", domain.TypeCredit, "1200"},
		{"zero debit", "0", domain.TypeDebit, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			want := decimal.RequireFromString(tt.want)

			got := domain.NormalizeAmount(amount, tt.txType)
			if !got.Equal(want) {
				t.Errorf("NormalizeAmount(%s, %s) = %s, want %s", tt.amount, tt.txType, got, want)
			}
		})
	}
}
