package http

import (
	"log/slog"
	"net/http"
	"slices"

	"carteira/internal/core"
)

// transactionView is a transaction rendered in the current display currency.
type transactionView struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Formatted   string  `json:"formatted"`
}

func newTransactionView(t core.Transaction, currency string) transactionView {
	amount := core.ToDisplay(t.Amount, currency)
	return transactionView{
		ID:          t.ID,
		Type:        string(t.Type),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.Format("2006-01-02"),
		Amount:      amount,
		Formatted:   formatAmount(amount, currency),
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// listTransactions returns transactions newest first, optionally filtered
// by category. An empty, "all", or unknown category selects everything.
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	category := sanitizeInput(r.URL.Query().Get("category"))
	if category == "all" || !slices.Contains(core.Categories(state), category) {
		category = ""
	}

	items := make([]transactionView, 0, len(state.Transactions))
	for i := len(state.Transactions) - 1; i >= 0; i-- {
		t := state.Transactions[i]
		if category != "" && t.Category != category {
			continue
		}
		items = append(items, newTransactionView(t, currency))
	}

	NewAPIResponse().JSON(map[string]interface{}{
		"currency": currency,
		"items":    items,
	}).Write(w)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	amount, err := core.ParseAmount(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError("invalid amount").Write(w)
		return
	}

	typ := core.TransactionType(parser.Get("type"))
	description := parser.Get("description")
	category := parser.Get("category")

	t, err := s.svc.AddTransaction(r.Context(), typ, description, amount, s.svc.Currency(), category)
	if err != nil {
		slog.WarnContext(r.Context(), "Transaction rejected",
			"type", string(typ),
			"error", err)
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"id", t.ID,
		"type", string(t.Type),
		"amount_base", t.Amount)

	NewAPIResponse().
		Status(http.StatusCreated).
		JSON(newTransactionView(t, s.svc.Currency())).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}
	id, ok := parser.GetID()
	if !ok {
		BadRequestError("missing or invalid id").Write(w)
		return
	}

	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		DomainError(err).Write(w)
		return
	}

	NewAPIResponse().Status(http.StatusNoContent).Write(w)
}
