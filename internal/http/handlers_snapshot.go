package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"carteira/internal/core"
)

// exportFilename matches the backup name the web client used, so restored
// files stay interchangeable.
func exportFilename(now time.Time) string {
	return fmt.Sprintf("backup-centro-de-comando-%s.json", now.Format("2006-01-02"))
}

// handleExport streams the full ledger as a downloadable JSON backup.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	data, err := s.svc.Export()
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
		InternalServerError("export failed").Write(w)
		return
	}

	NewAPIResponse().
		Header("Content-Type", "application/json; charset=utf-8").
		Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(time.Now()))).
		Body(data).
		Write(w)
}

// handleImport replaces the entire ledger with an uploaded backup. The
// document must carry every top-level collection or it is rejected whole.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	body := parser.GetRaw()
	if len(body) == 0 {
		BadRequestError("empty request body").Write(w)
		return
	}

	if err := s.svc.Import(r.Context(), body); err != nil {
		slog.WarnContext(r.Context(), "Import rejected", "error", err)
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Ledger imported", "bytes", len(body))
	NewAPIResponse().Status(http.StatusNoContent).Write(w)
}

// handleReset clears the ledger back to an empty state, keeping settings.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.svc.Reset(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Reset failed", "error", err)
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Ledger reset")
	NewAPIResponse().Status(http.StatusNoContent).Write(w)
}

// settingsPayload is the response for both settings endpoints.
func (s *Server) settingsPayload() map[string]interface{} {
	currency := s.svc.Currency()
	return map[string]interface{}{
		"currency":   currency,
		"locale":     core.LocaleFor(currency),
		"currencies": core.Currencies(),
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	NewAPIResponse().JSON(s.settingsPayload()).Write(w)
}

// handleSetCurrency switches the display currency. Stored amounts stay in
// the base currency, only rendering changes.
func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	code := parser.Get("currency")
	if err := s.svc.SetCurrency(r.Context(), code); err != nil {
		DomainError(err).Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Display currency changed", "currency", code)
	NewAPIResponse().JSON(s.settingsPayload()).Write(w)
}
