package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// PaymentCategory is the category assigned to transactions generated by
// debt payments and goal contributions.
const PaymentCategory = "Pagamentos"

type (
	TransactionType string

	// Transaction is an immutable income or expense entry. Amount is always
	// in the base currency.
	Transaction struct {
		ID          int64           `json:"id"`
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        time.Time       `json:"date"`
	}

	// Debt tracks an amount owed. Remaining decreases through payments and
	// never drops below zero or rises above Total.
	Debt struct {
		ID        int64   `json:"id"`
		Name      string  `json:"name"`
		Total     float64 `json:"total"`
		Remaining float64 `json:"remaining"`
	}

	// Goal is a savings target. Saved increases through contributions,
	// clamped to Target.
	Goal struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Target   float64 `json:"target"`
		Saved    float64 `json:"saved"`
		Category string  `json:"category"`
	}

	// FixedExpense is a recurring monthly cost with no transaction date.
	// It counts once per aggregation window.
	FixedExpense struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"paymentMethod"`
	}

	Settings struct {
		Currency string `json:"currency"`
	}

	// LedgerState is the aggregate root persisted as a single JSON document.
	LedgerState struct {
		Transactions  []Transaction  `json:"transactions"`
		Debts         []Debt         `json:"debts"`
		Goals         []Goal         `json:"goals"`
		FixedExpenses []FixedExpense `json:"fixedExpenses"`
		Settings      Settings       `json:"settings"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrNotFound         = errors.New("not found")
)

func (t Transaction) Validate() error {
	switch t.Type {
	case Income, Expense:
	default:
		return ErrInvalidType
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !(t.Amount > 0) {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if !(d.Total > 0) {
		return ErrInvalidAmount
	}
	if d.Remaining < 0 || d.Remaining > d.Total {
		return errors.New("remaining out of range")
	}
	return nil
}

// Progress returns how much of the debt has been paid off, in [0, 1].
func (d Debt) Progress() float64 {
	if d.Total <= 0 {
		return 1
	}
	return (d.Total - d.Remaining) / d.Total
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if !(g.Target > 0) {
		return ErrInvalidAmount
	}
	if g.Saved < 0 || g.Saved > g.Target {
		return errors.New("saved out of range")
	}
	return nil
}

// Progress returns the saved fraction of the target, in [0, 1].
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	return g.Saved / g.Target
}

func (fe FixedExpense) Validate() error {
	if len(strings.TrimSpace(fe.Name)) == 0 {
		return ErrEmptyName
	}
	if !(fe.Amount > 0) {
		return ErrInvalidAmount
	}
	return nil
}

// NewState returns an empty ledger with default settings.
func NewState() *LedgerState {
	return &LedgerState{
		Transactions:  []Transaction{},
		Debts:         []Debt{},
		Goals:         []Goal{},
		FixedExpenses: []FixedExpense{},
		Settings:      Settings{Currency: BaseCurrency},
	}
}

// Clone returns a deep copy so callers can read or serialize the state
// without holding the store lock.
func (s *LedgerState) Clone() *LedgerState {
	return &LedgerState{
		Transactions:  append([]Transaction(nil), s.Transactions...),
		Debts:         append([]Debt(nil), s.Debts...),
		Goals:         append([]Goal(nil), s.Goals...),
		FixedExpenses: append([]FixedExpense(nil), s.FixedExpenses...),
		Settings:      s.Settings,
	}
}
