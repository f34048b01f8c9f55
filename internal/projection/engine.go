package projection

import (
	"github.com/shopspring/decimal"

	"github.com/pmholt/budgeteer/internal/domain"
)

// fallbackWindowDays bounds every projection window when paycheck data runs
// out.
const fallbackWindowDays = 20

// paychecksPerSource is how many future occurrences each paycheck definition
// contributes; the engine never looks past the paycheck-after-next.
const paychecksPerSource = 3

// Input is the ledger snapshot a projection is computed from. Today is the
// reference date and must be supplied by the caller.
type Input struct {
	Today        domain.Date
	Accounts     []*domain.Account
	Transactions []*domain.Transaction
	Recurrings   []*domain.Recurring
}

// Summary is the projection result served to clients. Ephemeral: recomputed
// on every request, never persisted. Monetary values carry full precision;
// rounding belongs to presentation.
type Summary struct {
	CurrentBalance       decimal.Decimal `json:"currentBalance"`
	UpcomingTotal        decimal.Decimal `json:"upcomingTotal"`
	RealBalance          decimal.Decimal `json:"realBalance"`
	AdjustedRealBalance  decimal.Decimal `json:"adjustedRealBalance"`
	DailySpend           decimal.Decimal `json:"dailySpend"`
	ShortfallUsed        bool            `json:"shortfallUsed"`
	ShortfallWindowStart *domain.Date    `json:"shortfallWindowStart"`
	ShortfallWindowEnd   *domain.Date    `json:"shortfallWindowEnd"`
	UpcomingUpperDate    domain.Date     `json:"upcomingUpperDate"`
	UpcomingCount        int             `json:"upcomingCount"`
	HorizonEnd           domain.Date     `json:"horizonEnd"`
	HorizonDays          int             `json:"horizonDays"`
}

// Project computes the full balance projection. It is total: any well-formed
// input, including empty slices, yields a complete zero-valued summary.
func Project(in Input) Summary {
	today := in.Today
	fallbackMax := today.AddDays(fallbackWindowDays)

	var bills, paychecks []*domain.Recurring
	for _, r := range in.Recurrings {
		if r.Archived {
			continue
		}
		switch r.Kind {
		case domain.KindBill:
			bills = append(bills, r)
		case domain.KindPaycheck:
			paychecks = append(paychecks, r)
		}
	}

	occurrences := ExpandAll(paychecks, today, paychecksPerSource)

	// The upcoming-bills window reaches to the paycheck-after-next when one
	// is predicted, else to the next paycheck, else 20 days out.
	upperDate := fallbackMax
	switch {
	case len(occurrences) >= 2:
		upperDate = occurrences[1].Date
	case len(occurrences) == 1:
		upperDate = occurrences[0].Date
	}

	currentBalance := CurrentBalance(in.Accounts, in.Transactions)

	upcomingTotal, upcomingCount := sumBillsBetween(bills, today, upperDate)
	realBalance := currentBalance.Sub(upcomingTotal)

	summary := Summary{
		CurrentBalance:    currentBalance,
		UpcomingTotal:     upcomingTotal,
		RealBalance:       realBalance,
		UpcomingUpperDate: upperDate,
		UpcomingCount:     upcomingCount,
	}

	if len(occurrences) == 0 {
		// No paychecks predicted: reserve every bill in the fallback window.
		billsUpTo, _ := sumBillsBetween(bills, today, fallbackMax)
		summary.AdjustedRealBalance = currentBalance.Sub(billsUpTo)
	} else {
		next := occurrences[0]

		billsBeforeNext := sumBillsBefore(bills, today, next.Date)
		base := currentBalance.Sub(billsBeforeNext)

		upper := fallbackMax
		if len(occurrences) >= 2 && occurrences[1].Date.OnOrBefore(fallbackMax) {
			upper = occurrences[1].Date
		}

		billsBetween, _ := sumBillsBetween(bills, next.Date, upper)
		payBetween := sumPaychecksBetween(occurrences, next.Date, upper)
		netBetween := payBetween.Sub(billsBetween)

		// A projected shortfall between the next two paychecks is absorbed
		// now; a surplus is never spent ahead of time.
		summary.AdjustedRealBalance = base
		if netBetween.IsNegative() {
			summary.AdjustedRealBalance = base.Add(netBetween)
			summary.ShortfallUsed = true
		}

		windowStart := next.Date
		windowEnd := upper
		summary.ShortfallWindowStart = &windowStart
		summary.ShortfallWindowEnd = &windowEnd
	}

	// The adjusted balance can never exceed what is actually available.
	if summary.AdjustedRealBalance.GreaterThan(currentBalance) {
		summary.AdjustedRealBalance = currentBalance
	}

	summary.DailySpend = dailySpend(summary.AdjustedRealBalance, occurrences, today, fallbackMax)

	horizon := SelectHorizon(paychecks, today)
	summary.HorizonEnd = horizon.End
	summary.HorizonDays = horizon.Days

	return summary
}

// dailySpend divides the adjusted balance across the days until the next
// paycheck (or the fallback window end). Zero or negative room yields exactly
// zero; a deficit must never be presented as spendable.
func dailySpend(adjusted decimal.Decimal, occurrences []Occurrence, today, fallbackMax domain.Date) decimal.Decimal {
	if !adjusted.IsPositive() {
		return decimal.Zero
	}

	target := fallbackMax
	if len(occurrences) > 0 && occurrences[0].Date.Before(fallbackMax) {
		target = occurrences[0].Date
	}

	days := today.DaysUntil(target)
	if days < 1 {
		days = 1
	}

	return adjusted.Div(decimal.NewFromInt(int64(days)))
}

// sumBillsBetween totals bill magnitudes whose anchor date falls in
// [from, to], and counts them.
func sumBillsBetween(bills []*domain.Recurring, from, to domain.Date) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, b := range bills {
		if b.AnchorDate.IsZero() {
			continue
		}
		if b.AnchorDate.OnOrAfter(from) && b.AnchorDate.OnOrBefore(to) {
			total = total.Add(b.Magnitude())
			count++
		}
	}

	return total, count
}

// sumBillsBefore totals bill magnitudes due in [from, cutoff).
func sumBillsBefore(bills []*domain.Recurring, from, cutoff domain.Date) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		if b.AnchorDate.IsZero() {
			continue
		}
		if b.AnchorDate.OnOrAfter(from) && b.AnchorDate.Before(cutoff) {
			total = total.Add(b.Magnitude())
		}
	}

	return total
}

// sumPaychecksBetween totals predicted paycheck inflows in [from, to].
func sumPaychecksBetween(occurrences []Occurrence, from, to domain.Date) decimal.Decimal {
	total := decimal.Zero
	for _, o := range occurrences {
		if o.Date.OnOrAfter(from) && o.Date.OnOrBefore(to) {
			total = total.Add(o.Amount)
		}
	}

	return total
}
