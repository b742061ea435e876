// Package http exposes the budget ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"

	"carteira/internal/middleware/ratelimit"
	"carteira/internal/middleware/trace"
	"carteira/internal/services"
)

type Server struct {
	http.Server
	svc          *services.LedgerService
	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:     svc,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:  trace.NewMiddleware(ratelimit.ClientIP),
	}

	api := func(h http.HandlerFunc) http.Handler {
		return s.tracer.Middleware(s.withGuards(h))
	}

	mux.Handle("/api/transactions", api(s.handleTransactions))
	mux.Handle("/api/transactions/delete", api(s.handleDeleteTransaction))
	mux.Handle("/api/debts", api(s.handleDebts))
	mux.Handle("/api/debts/delete", api(s.handleDeleteDebt))
	mux.Handle("/api/debts/pay", api(s.handlePayDebt))
	mux.Handle("/api/goals", api(s.handleGoals))
	mux.Handle("/api/goals/delete", api(s.handleDeleteGoal))
	mux.Handle("/api/goals/contribute", api(s.handleContributeGoal))
	mux.Handle("/api/fixed-expenses", api(s.handleFixedExpenses))
	mux.Handle("/api/fixed-expenses/delete", api(s.handleDeleteFixedExpense))
	mux.Handle("/api/summary/monthly", api(s.handleMonthlySummary))
	mux.Handle("/api/summary/annual", api(s.handleAnnualSummary))
	mux.Handle("/api/summary/history", api(s.handleHistorySummary))
	mux.Handle("/api/years", api(s.handleYears))
	mux.Handle("/api/categories", api(s.handleCategories))
	mux.Handle("/api/settings", api(s.handleSettings))
	mux.Handle("/api/settings/currency", api(s.handleSetCurrency))
	mux.Handle("/api/export", api(s.handleExport))
	mux.Handle("/api/import", api(s.handleImport))
	mux.Handle("/api/reset", api(s.handleReset))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	return s
}

// withGuards adds security headers and rate limiting for mutating requests.
func (s *Server) withGuards(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(ratelimit.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// Shutdown stops the limiter cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
