package http

import (
	"net/http"
	"strconv"
	"time"

	"carteira/internal/core"
)

// handleMonthlySummary returns the headline numbers for a calendar month,
// defaulting to the current one. Values are in the display currency.
func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	year, month := parseYearMonth(r)
	ref := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	now := time.Now()
	if year == now.Year() && month == now.Month() {
		ref = now
	}

	k := core.ComputeMonthlyKPIs(state, ref)
	balance := core.ToDisplay(k.Balance, currency)
	income := core.ToDisplay(k.Income, currency)
	expense := core.ToDisplay(k.Expense, currency)
	debtTotal := core.ToDisplay(k.DebtTotal, currency)

	NewAPIResponse().JSON(map[string]interface{}{
		"currency":  currency,
		"year":      year,
		"month":     int(month),
		"balance":   balance,
		"income":    income,
		"expense":   expense,
		"debtTotal": debtTotal,
		"formatted": map[string]string{
			"balance":   formatAmount(balance, currency),
			"income":    formatAmount(income, currency),
			"expense":   formatAmount(expense, currency),
			"debtTotal": formatAmount(debtTotal, currency),
		},
	}).Write(w)
}

// handleAnnualSummary extrapolates spending for the current year.
func (s *Server) handleAnnualSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	p := core.ComputeAnnualProjection(state, time.Now())
	annualBalance := core.ToDisplay(p.AnnualBalance, currency)
	avgDaily := core.ToDisplay(p.AvgDailyExpense, currency)
	projection := core.ToDisplay(p.MonthlyProjection, currency)

	NewAPIResponse().JSON(map[string]interface{}{
		"currency":          currency,
		"annualBalance":     annualBalance,
		"avgDailyExpense":   avgDaily,
		"monthlyProjection": projection,
		"formatted": map[string]string{
			"annualBalance":     formatAmount(annualBalance, currency),
			"avgDailyExpense":   formatAmount(avgDaily, currency),
			"monthlyProjection": formatAmount(projection, currency),
		},
	}).Write(w)
}

// handleHistorySummary aggregates a past year or year/month window.
func (s *Server) handleHistorySummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	year, month := parseHistoryParams(r)
	sum := core.HistoricalSummary(state, year, month)
	balance := core.ToDisplay(sum.Balance, currency)
	income := core.ToDisplay(sum.Income, currency)
	expense := core.ToDisplay(sum.Expense, currency)

	monthValue := "all"
	if month != core.AllMonths {
		monthValue = strconv.Itoa(int(month))
	}

	NewAPIResponse().JSON(map[string]interface{}{
		"currency": currency,
		"year":     year,
		"month":    monthValue,
		"balance":  balance,
		"income":   income,
		"expense":  expense,
		"formatted": map[string]string{
			"balance": formatAmount(balance, currency),
			"income":  formatAmount(income, currency),
			"expense": formatAmount(expense, currency),
		},
	}).Write(w)
}

// handleYears lists the selectable history years, newest first.
func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	NewAPIResponse().JSON(map[string]interface{}{
		"years": core.Years(s.svc.Snapshot(), time.Now()),
	}).Write(w)
}

// handleCategories lists the distinct transaction categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	categories := core.Categories(s.svc.Snapshot())
	if categories == nil {
		categories = []string{}
	}

	NewAPIResponse().JSON(map[string]interface{}{
		"categories": categories,
	}).Write(w)
}
