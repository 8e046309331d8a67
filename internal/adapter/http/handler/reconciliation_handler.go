package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	VerifyRaffle(ctx context.Context, raffleID string) (*usecase.RaffleReport, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
	CheckLedgerConsistency(ctx context.Context) error
}

// ReconciliationHandler exposes invariant checks over raffles and the
// token ledger.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// VerifyRaffle re-derives one raffle's invariants and its draw.
func (h *ReconciliationHandler) VerifyRaffle(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.VerifyRaffle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to verify raffle", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RaffleReportFromUseCase(report))
}

// Report verifies every raffle and the token ledger.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to generate reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}

// CheckLedger verifies that balances and postings both sum to zero.
func (h *ReconciliationHandler) CheckLedger(w http.ResponseWriter, r *http.Request) {
	if err := h.reconciliationUC.CheckLedgerConsistency(r.Context()); err != nil {
		writeError(w, http.StatusConflict, "ledger inconsistent", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"consistent": true})
}
