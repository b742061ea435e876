package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"carteira/internal/core"
)

// parseYearMonth extracts year and month from query parameters.
// Returns current year/month as defaults if not provided or invalid.
func parseYearMonth(r *http.Request) (year int, month time.Month) {
	now := time.Now()
	year = now.Year()
	month = now.Month()

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}

	return year, month
}

// parseHistoryParams extracts the history window. An absent or "all" month
// selects the whole year.
func parseHistoryParams(r *http.Request) (year int, month time.Month) {
	year = time.Now().Year()
	month = core.AllMonths

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" || strings.EqualFold(v, "all") {
		return year, core.AllMonths
	}
	if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

var currencySymbols = map[string]string{
	"BRL": "R$",
	"PEN": "S/",
	"USD": "$",
}

// formatAmount renders an amount as a currency string in the locale
// conventions of the given currency, e.g. "R$ 1.234,56" or "$1,234.56".
func formatAmount(amount float64, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}

	neg := amount < 0
	if neg {
		amount = -amount
	}

	// en-US groups with commas, pt-BR and es-PE with dots.
	thousandSep, decimalSep := ".", ","
	if core.LocaleFor(currency) == "en-US" {
		thousandSep, decimalSep = ",", "."
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteString(thousandSep)
		}
		grouped.WriteRune(digit)
	}

	out := symbol + " " + grouped.String() + decimalSep + fracPart
	if currency == "USD" {
		out = symbol + grouped.String() + decimalSep + fracPart
	}
	if neg {
		return "-" + out
	}
	return out
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
