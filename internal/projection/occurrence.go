// Package projection computes forward-looking cash-flow estimates from the
// current ledger state and recurring bill/paycheck definitions. Everything in
// this package is a pure function of its inputs; the reference date is always
// an explicit parameter, never wall-clock time.
package projection

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
)

// maxAdvanceIterations caps anchor catch-up so a pathological rule that never
// moves the date forward cannot spin forever.
const maxAdvanceIterations = 200

// Occurrence is one predicted future instance of a recurring definition.
type Occurrence struct {
	Date   domain.Date
	Amount decimal.Decimal
}

// Expand produces up to maxCount future occurrences of a single recurring
// definition, all strictly after the reference date.
//
// A non-recurring definition yields its anchor date alone, and only if that
// date is still in the future. A recurring one is first advanced past the
// reference date, then emitted occurrence by occurrence.
func Expand(anchor domain.Date, rule domain.Rule, isRecurring bool, amount decimal.Decimal, after domain.Date, maxCount int) []Occurrence {
	if anchor.IsZero() || maxCount <= 0 {
		return nil
	}

	if !isRecurring {
		if anchor.After(after) {
			return []Occurrence{{Date: anchor, Amount: amount.Abs()}}
		}
		return nil
	}

	cur := anchor
	for i := 0; !cur.After(after); i++ {
		if i >= maxAdvanceIterations {
			return nil
		}
		cur = domain.NextOccurrence(cur, rule)
	}

	out := make([]Occurrence, 0, maxCount)
	for i := 0; i < maxCount; i++ {
		out = append(out, Occurrence{Date: cur, Amount: amount.Abs()})
		cur = domain.NextOccurrence(cur, rule)
	}

	return out
}

// ExpandAll merges the future occurrences of several recurring definitions
// into one sequence sorted ascending by date. Definitions with a zero anchor
// (unparseable stored dates) are skipped rather than failing the projection.
func ExpandAll(recurrings []*domain.Recurring, after domain.Date, perSource int) []Occurrence {
	var all []Occurrence
	for _, r := range recurrings {
		if r.Archived {
			continue
		}
		all = append(all, Expand(r.AnchorDate, r.Rule, r.IsRecurring, r.Magnitude(), after, perSource)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	return all
}
