package http

import (
	"log/slog"
	"net/http"

	"carteira/internal/core"
)

// goalView is a savings goal rendered in the current display currency.
type goalView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Target    float64 `json:"target"`
	Saved     float64 `json:"saved"`
	Progress  float64 `json:"progress"`
	Formatted string  `json:"formatted"`
}

func newGoalView(g core.Goal, currency string) goalView {
	saved := core.ToDisplay(g.Saved, currency)
	target := core.ToDisplay(g.Target, currency)
	return goalView{
		ID:        g.ID,
		Name:      g.Name,
		Category:  g.Category,
		Target:    target,
		Saved:     saved,
		Progress:  g.Progress() * 100,
		Formatted: formatAmount(saved, currency) + " / " + formatAmount(target, currency),
	}
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// listGoals returns the flat goal list plus a by-category grouping so
// clients can render one section per purchase category.
func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	state := s.svc.Snapshot()
	currency := state.Settings.Currency

	items := make([]goalView, 0, len(state.Goals))
	byCategory := make(map[string][]goalView)
	for _, g := range state.Goals {
		v := newGoalView(g, currency)
		items = append(items, v)
		byCategory[g.Category] = append(byCategory[g.Category], v)
	}

	NewAPIResponse().JSON(map[string]interface{}{
		"currency":   currency,
		"items":      items,
		"byCategory": byCategory,
	}).Write(w)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	target, err := core.ParseAmount(parser.Get("target"))
	if err != nil {
		UnprocessableEntityError("invalid target").Write(w)
		return
	}
	currency := s.svc.Currency()
	targetBase, err := core.ToBase(target, currency)
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	g, err := s.svc.AddGoal(r.Context(), parser.Get("name"), targetBase, parser.Get("category"))
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Goal created", "id", g.ID, "name", g.Name, "category", g.Category)

	NewAPIResponse().
		Status(http.StatusCreated).
		JSON(newGoalView(g, currency)).
		Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.DeleteGoal(r.Context(), id); err != nil {
		DomainError(err).Write(w)
		return
	}

	NewAPIResponse().Status(http.StatusNoContent).Write(w)
}

// handleContributeGoal books a contribution in the display currency and
// returns the generated expense transaction.
func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
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

	t, err := s.svc.ContributeGoal(r.Context(), id, amount)
	if err != nil {
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Goal contribution applied",
		"goal_id", id,
		"transaction_id", t.ID,
		"amount_base", t.Amount)

	NewAPIResponse().
		Status(http.StatusCreated).
		JSON(newTransactionView(t, s.svc.Currency())).
		Write(w)
}
