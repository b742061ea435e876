package http

import (
	"log/slog"
	"net/http"

	"carteira/internal/core"
)

// fixedExpenseView is a recurring cost rendered in the display currency.
type fixedExpenseView struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	Formatted     string  `json:"formatted"`
}

func newFixedExpenseView(fe core.FixedExpense, currency string) fixedExpenseView {
	amount := core.ToDisplay(fe.Amount, currency)
	return fixedExpenseView{
		ID:            fe.ID,
		Name:          fe.Name,
		Amount:        amount,
		PaymentMethod: fe.PaymentMethod,
		Formatted:     formatAmount(amount, currency),
	}
}

func (s *Server) handleFixedExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listFixedExpenses(w, r)
	case http.MethodPost:
		s.createFixedExpense(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listFixedExpenses(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	items := make([]fixedExpenseView, 0, len(state.FixedExpenses))
	var total float64
	for _, fe := range state.FixedExpenses {
		items = append(items, newFixedExpenseView(fe, currency))
		total += fe.Amount
	}
	totalDisplay := core.ToDisplay(total, currency)

	NewAPIResponse().JSON(map[string]interface{}{
		"currency":       currency,
		"items":          items,
		"monthlyTotal":   totalDisplay,
		"formattedTotal": formatAmount(totalDisplay, currency),
	}).Write(w)
}

func (s *Server) createFixedExpense(w http.ResponseWriter, r *http.Request) {
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
	currency := s.svc.Currency()
	amountBase, err := core.ToBase(amount, currency)
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	fe, err := s.svc.AddFixedExpense(r.Context(), parser.Get("name"), amountBase, parser.Get("paymentMethod"))
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Fixed expense created", "id", fe.ID, "name", fe.Name)

	NewAPIResponse().
		Status(http.StatusCreated).
		JSON(newFixedExpenseView(fe, currency)).
		Write(w)
}

func (s *Server) handleDeleteFixedExpense(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.DeleteFixedExpense(r.Context(), id); err != nil {
		DomainError(err).Write(w)
		return
	}

	NewAPIResponse().Status(http.StatusNoContent).Write(w)
}
