package projection_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/projection"
)

func paycheck(t *testing.T, anchor string, rule domain.Rule) *domain.Recurring {
	t.Helper()
	return &domain.Recurring{
		Kind:            domain.KindPaycheck,
		EstimatedAmount: decimal.NewFromInt(2000),
		AnchorDate:      date(t, anchor),
		IsRecurring:     true,
		Rule:            rule,
	}
}

func TestSelectHorizonNextPaycheckBeforeMonthEnd(t *testing.T) {
	today := date(t, "2025-08-14")
	paychecks := []*domain.Recurring{paycheck(t, "2025-08-22", domain.RuleBiWeekly)}

	got := projection.SelectHorizon(paychecks, today)
	require.Equal(t, "2025-08-22", got.End.String())
	require.Equal(t, 8, got.Days)
}

func TestSelectHorizonMonthEndWins(t *testing.T) {
	today := date(t, "2025-08-28")
	paychecks := []*domain.Recurring{paycheck(t, "2025-09-12", domain.RuleBiWeekly)}

	got := projection.SelectHorizon(paychecks, today)
	require.Equal(t, "2025-08-31", got.End.String())
	require.Equal(t, 3, got.Days)
}

func TestSelectHorizonSyntheticGuess(t *testing.T) {
	tests := []struct {
		name     string
		today    string
		wantEnd  string
		wantDays int
	}{
		// Before the 15th the guess is the 15th, which beats month end.
		{"early month", "2025-08-10", "2025-08-15", 5},
		// From the 15th the guess is the 1st of next month; month end wins.
		{"mid month", "2025-08-20", "2025-08-31", 11},
		// On the last day of the month days still floors at 1.
		{"month end", "2025-08-31", "2025-08-31", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projection.SelectHorizon(nil, date(t, tt.today))
			require.Equal(t, tt.wantEnd, got.End.String())
			require.Equal(t, tt.wantDays, got.Days)
		})
	}
}

func TestSelectHorizonDaysAlwaysPositive(t *testing.T) {
	days := []string{"2025-08-01", "2025-08-14", "2025-08-15", "2025-08-31", "2025-12-31"}
	for _, d := range days {
		got := projection.SelectHorizon(nil, date(t, d))
		require.GreaterOrEqual(t, got.Days, 1, "today=%s", d)
	}
}
