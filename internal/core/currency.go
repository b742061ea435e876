// Package core provides the ledger domain model, currency conversion and
// aggregation over ledger snapshots.
//
// This file contains the static exchange-rate table and the two conversion
// directions. All stored amounts are in the base currency; a display currency
// is a per-session setting applied on read.
package core

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// BaseCurrency is the currency every amount is stored in.
const BaseCurrency = "BRL"

// rates maps a currency code to its conversion factor relative to the base
// currency (base rate is 1). Entry converts display→base by dividing,
// display conversion goes base→display by multiplying, so a value
// round-trips exactly up to floating-point tolerance.
var rates = map[string]float64{
	"BRL": 1,
	"PEN": 0.75,
	"USD": 5.25,
}

// locales maps a currency code to the locale identifier used for number
// formatting only; it carries no business meaning.
var locales = map[string]string{
	"BRL": "pt-BR",
	"PEN": "es-PE",
	"USD": "en-US",
}

// SupportedCurrency reports whether code has an exchange rate.
func SupportedCurrency(code string) bool {
	_, ok := rates[code]
	return ok
}

// Currencies returns the supported currency codes, sorted.
func Currencies() []string {
	out := make([]string, 0, len(rates))
	for c := range rates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// LocaleFor returns the formatting locale for a currency code, falling back
// to the base currency locale.
func LocaleFor(code string) string {
	if l, ok := locales[code]; ok {
		return l
	}
	return locales[BaseCurrency]
}

// ToBase converts an amount entered in the given display currency to the
// base currency. The amount must be a positive finite number.
func ToBase(amount float64, currency string) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	rate, ok := rates[currency]
	if !ok {
		return 0, ErrUnknownCurrency
	}
	return amount / rate, nil
}

// ToDisplay converts a base-currency amount to the given display currency.
// Unknown currencies and non-numeric inputs yield 0.
func ToDisplay(amountBase float64, currency string) float64 {
	rate, ok := rates[currency]
	if !ok {
		return 0
	}
	if math.IsNaN(amountBase) || math.IsInf(amountBase, 0) {
		return 0
	}
	return amountBase * rate
}

// ParseAmount parses a user-supplied decimal amount. It accepts both dot and
// comma decimal separators and requires a positive finite value; anything
// else is reported as ErrInvalidAmount rather than propagated as NaN.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
