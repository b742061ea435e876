package core

import (
	"sort"
	"time"
)

// AllMonths selects a whole-year window in HistoricalSummary.
const AllMonths time.Month = 0

type (
	// MonthlyKPIs are the headline numbers for the calendar month of the
	// reference time. All values are in the base currency.
	MonthlyKPIs struct {
		Balance   float64 `json:"balance"`
		Income    float64 `json:"income"`
		Expense   float64 `json:"expense"`
		DebtTotal float64 `json:"debtTotal"`
	}

	// AnnualProjection extrapolates spending for the calendar year of the
	// reference time.
	AnnualProjection struct {
		AnnualBalance     float64 `json:"annualBalance"`
		AvgDailyExpense   float64 `json:"avgDailyExpense"`
		MonthlyProjection float64 `json:"monthlyProjection"`
	}

	// PeriodSummary aggregates a historical year or year/month window.
	PeriodSummary struct {
		Balance float64 `json:"balance"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}
)

// ComputeMonthlyKPIs aggregates the calendar month of now. The fixed-expense
// total counts once, as this month's recurring cost, regardless of the day of
// the month; it is never prorated.
func ComputeMonthlyKPIs(s *LedgerState, now time.Time) MonthlyKPIs {
	var k MonthlyKPIs
	for _, t := range s.Transactions {
		if t.Date.Year() != now.Year() || t.Date.Month() != now.Month() {
			continue
		}
		switch t.Type {
		case Income:
			k.Income += t.Amount
		case Expense:
			k.Expense += t.Amount
		}
	}
	k.Expense += FixedExpenseTotal(s)
	for _, d := range s.Debts {
		k.DebtTotal += d.Remaining
	}
	k.Balance = k.Income - k.Expense
	return k
}

// ComputeAnnualProjection sums the calendar year of now. Fixed expenses are
// assumed to have recurred identically in every elapsed month of the year,
// so they contribute their monthly total multiplied by the month number.
func ComputeAnnualProjection(s *LedgerState, now time.Time) AnnualProjection {
	var income, variable float64
	for _, t := range s.Transactions {
		if t.Date.Year() != now.Year() {
			continue
		}
		switch t.Type {
		case Income:
			income += t.Amount
		case Expense:
			variable += t.Amount
		}
	}
	fixed := FixedExpenseTotal(s) * float64(int(now.Month()))

	var p AnnualProjection
	p.AnnualBalance = income - (fixed + variable)

	monthly := ComputeMonthlyKPIs(s, now)
	if day := now.Day(); day > 0 {
		p.AvgDailyExpense = monthly.Expense / float64(day)
	}
	p.MonthlyProjection = p.AvgDailyExpense * float64(daysInMonth(now))
	return p
}

// HistoricalSummary aggregates a past (or current) window: the whole year
// when month is AllMonths, otherwise a single calendar month. Fixed expenses
// scale with the number of months in the window, mirroring the monthly KPI
// policy.
func HistoricalSummary(s *LedgerState, year int, month time.Month) PeriodSummary {
	monthsInPeriod := 12.0
	if month != AllMonths {
		monthsInPeriod = 1
	}

	var sum PeriodSummary
	for _, t := range s.Transactions {
		if t.Date.Year() != year {
			continue
		}
		if month != AllMonths && t.Date.Month() != month {
			continue
		}
		switch t.Type {
		case Income:
			sum.Income += t.Amount
		case Expense:
			sum.Expense += t.Amount
		}
	}
	sum.Expense += FixedExpenseTotal(s) * monthsInPeriod
	sum.Balance = sum.Income - sum.Expense
	return sum
}

// FixedExpenseTotal is the monthly recurring cost across all fixed expenses.
func FixedExpenseTotal(s *LedgerState) float64 {
	var total float64
	for _, fe := range s.FixedExpenses {
		total += fe.Amount
	}
	return total
}

// Categories returns the distinct transaction categories, sorted.
func Categories(s *LedgerState) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range s.Transactions {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out
}

// Years returns the distinct transaction years plus the year of now, sorted
// descending. The current year is always present so history filters have a
// selectable window even on an empty ledger.
func Years(s *LedgerState, now time.Time) []int {
	seen := map[int]struct{}{now.Year(): {}}
	out := []int{now.Year()}
	for _, t := range s.Transactions {
		y := t.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
