package ledger

import (
	"time"

	"carteira/internal/core"
)

// SeedState builds the starter ledger used when no snapshot exists yet.
// The values are illustrative examples, not load-bearing data.
func SeedState(now time.Time) *core.LedgerState {
	base := now.UnixMilli()
	id := func(offset int64) int64 { return base + offset }

	s := core.NewState()
	s.Debts = []core.Debt{
		{ID: id(1), Name: "Mercado Pago", Total: 129.05, Remaining: 129.05},
		{ID: id(2), Name: "Itaú", Total: 26.19, Remaining: 26.19},
	}
	s.FixedExpenses = []core.FixedExpense{
		{ID: id(3), Name: "Adobe Creative Cloud", Amount: 161.76, PaymentMethod: "Crédito"},
		{ID: id(4), Name: "GPT Plus", Amount: 110.00, PaymentMethod: "Crédito"},
		{ID: id(5), Name: "Site 46Graus", Amount: 35.00, PaymentMethod: "Crédito"},
		{ID: id(6), Name: "Gamepass PC", Amount: 36.00, PaymentMethod: "Crédito"},
		{ID: id(7), Name: "Academia", Amount: 120.00, PaymentMethod: "Débito"},
		{ID: id(8), Name: "Kit Limpeza de Pele", Amount: 220.00, PaymentMethod: "Crédito"},
	}
	s.Goals = []core.Goal{
		{ID: id(9), Name: "Paleta do Bruxo", Target: 197.00, Saved: 0, Category: "Equipamento"},
		{ID: id(10), Name: "Tênis Basquete Ankaa", Target: 267.00, Saved: 0, Category: "Glow Up"},
	}
	return s
}
