package projection

import (
	"github.com/pmholt/budgeteer/internal/domain"
)

// Horizon is the forward window a projection covers.
type Horizon struct {
	End  domain.Date
	Days int
}

// SelectHorizon picks the projection window end: the sooner of the next
// predicted paycheck and the end of the current calendar month.
//
// With no paycheck data at all, the next paycheck is guessed on a semi-monthly
// cadence (the 15th, or the 1st of next month). Days is floored at 1 so
// downstream divisions stay defined.
func SelectHorizon(paychecks []*domain.Recurring, today domain.Date) Horizon {
	next := nextPaycheckOrGuess(paychecks, today)

	end := today.EndOfMonth()
	if next.Before(end) {
		end = next
	}

	days := today.DaysUntil(end)
	if days < 1 {
		days = 1
	}

	return Horizon{End: end, Days: days}
}

func nextPaycheckOrGuess(paychecks []*domain.Recurring, today domain.Date) domain.Date {
	occurrences := ExpandAll(paychecks, today, 1)
	if len(occurrences) > 0 {
		return occurrences[0].Date
	}

	var guess domain.Date
	if today.Day() < 15 {
		guess = today.WithDay(15)
	} else {
		guess = today.FirstOfNextMonth()
	}
	if !guess.After(today) {
		guess = guess.AddMonths(1)
	}

	return guess
}
