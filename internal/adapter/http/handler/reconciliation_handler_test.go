package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

type reconciliationServiceStub struct {
	verifyFn func(ctx context.Context, raffleID string) (*usecase.RaffleReport, error)
	reportFn func(ctx context.Context) (*usecase.ReconciliationReport, error)
	ledgerFn func(ctx context.Context) error
}

func (s *reconciliationServiceStub) VerifyRaffle(ctx context.Context, raffleID string) (*usecase.RaffleReport, error) {
	return s.verifyFn(ctx, raffleID)
}

func (s *reconciliationServiceStub) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

func (s *reconciliationServiceStub) CheckLedgerConsistency(ctx context.Context) error {
	return s.ledgerFn(ctx)
}

func TestReconciliationHandler_VerifyRaffle(t *testing.T) {
	handler := NewReconciliationHandler(&reconciliationServiceStub{
		verifyFn: func(ctx context.Context, raffleID string) (*usecase.RaffleReport, error) {
			if raffleID == "missing" {
				return nil, domain.ErrRaffleNotFound
			}
			return &usecase.RaffleReport{
				RaffleID: raffleID,
				Issues:   []string{"entry total 3 does not match current entries 4"},
			}, nil
		},
	})

	rec := serve(http.MethodGet, "/raffles/{id}/verify", handler.VerifyRaffle, httptest.NewRequest(http.MethodGet, "/raffles/r1/verify", nil))

	var resp dto.RaffleReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || len(resp.Issues) != 1 {
		t.Fatalf("expected one issue, got %+v", resp)
	}

	rec = serve(http.MethodGet, "/raffles/{id}/verify", handler.VerifyRaffle, httptest.NewRequest(http.MethodGet, "/raffles/missing/verify", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReconciliationHandler_CheckLedger(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"consistent", nil, http.StatusOK},
		{"inconsistent", errors.New("ledger inconsistency detected"), http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewReconciliationHandler(&reconciliationServiceStub{
				ledgerFn: func(ctx context.Context) error { return tc.err },
			})

			rec := httptest.NewRecorder()
			handler.CheckLedger(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, rec.Code)
			}
		})
	}
}

func TestReconciliationHandler_Report(t *testing.T) {
	handler := NewReconciliationHandler(&reconciliationServiceStub{
		reportFn: func(ctx context.Context) (*usecase.ReconciliationReport, error) {
			return &usecase.ReconciliationReport{TotalRaffles: 3, ConsistentRaffles: 3, LedgerConsistent: true}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Report(rec, httptest.NewRequest(http.MethodGet, "/ledger/reconciliation", nil))

	var resp dto.ReconciliationReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalRaffles != 3 || !resp.LedgerConsistent || resp.Discrepancies == nil {
		t.Fatalf("unexpected report: %+v", resp)
	}
}
