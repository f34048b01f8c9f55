package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringKind separates money going out from money coming in.
type RecurringKind string

const (
	KindBill     RecurringKind = "Bill"
	KindPaycheck RecurringKind = "Paycheck"
)

// IsValid checks if the kind is known.
func (k RecurringKind) IsValid() bool {
	return k == KindBill || k == KindPaycheck
}

// Rule names a recurrence cadence. Unrecognized or empty values fall back to
// monthly.
type Rule string

const (
	RuleWeekly      Rule = "Weekly"
	RuleBiWeekly    Rule = "Bi-Weekly"
	RuleSemiMonthly Rule = "Semi-Monthly"
	RuleMonthly     Rule = "Monthly"
	RuleAnnually    Rule = "Annually"
)

// Recurring is a bill or paycheck definition. AnchorDate is the next expected
// occurrence; it moves forward on every confirm or skip. EstimatedAmount is
// always a positive magnitude regardless of kind.
type Recurring struct {
	ID              string
	Name            string
	Kind            RecurringKind
	EstimatedAmount decimal.Decimal
	AnchorDate      Date
	IsRecurring     bool
	Rule            Rule
	AccountID       string
	Archived        bool
	OwnerID         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NextOccurrence returns the occurrence following anchor under the given rule.
// Pure: same inputs always yield the same date.
//
// Semi-monthly pays on the 15th and the 1st. Anything unrecognized, including
// an empty rule, advances one calendar month with time.AddDate overflow
// semantics (Jan 31 rolls into early March); that edge is accepted rather than
// clamped.
func NextOccurrence(anchor Date, rule Rule) Date {
	switch strings.ToLower(string(rule)) {
	case "weekly":
		return anchor.AddDays(7)
	case "bi-weekly", "biweekly":
		return anchor.AddDays(14)
	case "semi-monthly", "semimonthly":
		if anchor.Day() < 15 {
			return anchor.WithDay(15)
		}
		return anchor.FirstOfNextMonth()
	case "annually", "yearly":
		return anchor.AddYears(1)
	default:
		return anchor.AddMonths(1)
	}
}

// Advance returns the recurring's anchor moved one occurrence forward.
func (r *Recurring) Advance() Date {
	return NextOccurrence(r.AnchorDate, r.Rule)
}

// Magnitude returns the estimated amount as a positive value.
func (r *Recurring) Magnitude() decimal.Decimal {
	return r.EstimatedAmount.Abs()
}

// TransactionType returns the type a confirmed occurrence posts as.
func (r *Recurring) TransactionType() TransactionType {
	if r.Kind == KindBill {
		return TypeDebit
	}
	return TypeCredit
}
