package http

import (
	"log/slog"
	"net/http"

	"carteira/internal/core"
)

// debtView is a debt rendered in the current display currency. Progress is
// a percentage, 100 once the debt is cleared.
type debtView struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Total              float64 `json:"total"`
	Remaining          float64 `json:"remaining"`
	Progress           float64 `json:"progress"`
	FormattedRemaining string  `json:"formattedRemaining"`
}

func newDebtView(d core.Debt, currency string) debtView {
	remaining := core.ToDisplay(d.Remaining, currency)
	return debtView{
		ID:                 d.ID,
		Name:               d.Name,
		Total:              core.ToDisplay(d.Total, currency),
		Remaining:          remaining,
		Progress:           d.Progress() * 100,
		FormattedRemaining: formatAmount(remaining, currency),
	}
}

func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listDebts(w, r)
	case http.MethodPost:
		s.createDebt(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listDebts(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	items := make([]debtView, 0, len(state.Debts))
	for _, d := range state.Debts {
		items = append(items, newDebtView(d, currency))
	}

	NewAPIResponse().JSON(map[string]interface{}{
		"currency": currency,
		"items":    items,
	}).Write(w)
}

func (s *Server) createDebt(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	total, err := core.ParseAmount(parser.Get("total"))
	if err != nil {
		UnprocessableEntityError("invalid total").Write(w)
		return
	}
	currency := s.svc.Currency()
	totalBase, err := core.ToBase(total, currency)
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	d, err := s.svc.AddDebt(r.Context(), parser.Get("name"), totalBase)
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Debt created", "id", d.ID, "name", d.Name)

	NewAPIResponse().
		Status(http.StatusCreated).
		JSON(newDebtView(d, currency)).
		Write(w)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.DeleteDebt(r.Context(), id); err != nil {
		DomainError(err).Write(w)
		return
	}

	NewAPIResponse().Status(http.StatusNoContent).Write(w)
}

// handlePayDebt applies a payment in the display currency. The resulting
// expense transaction is returned so clients can show it immediately.
func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
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
	amount, err := core.ParseAmount(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError("invalid amount").Write(w)
		return
	}

	t, err := s.svc.PayDebt(r.Context(), id, amount)
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Debt payment applied",
		"debt_id", id,
		"transaction_id", t.ID,
		"amount_base", t.Amount)

	NewAPIResponse().
		Status(http.StatusCreated).
		JSON(newTransactionView(t, s.svc.Currency())).
		Write(w)
}
