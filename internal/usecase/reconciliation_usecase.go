package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
)

// ReconciliationUseCase checks stored raffles and the token ledger against
// their invariants.
type ReconciliationUseCase struct {
	raffleRepo   RaffleRepository
	entryRepo    EntryRepository
	accountRepo  AccountRepository
	transferRepo TransferRepository
	assetRepo    AssetRepository
	ledgerRepo   LedgerRepository
	clock        Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	raffleRepo RaffleRepository,
	entryRepo EntryRepository,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	assetRepo AssetRepository,
	ledgerRepo LedgerRepository,
	clock Clock,
) *ReconciliationUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &ReconciliationUseCase{
		raffleRepo:   raffleRepo,
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		assetRepo:    assetRepo,
		ledgerRepo:   ledgerRepo,
		clock:        clock,
	}
}

// RaffleReport is the outcome of verifying one raffle.
type RaffleReport struct {
	CheckedAt      time.Time
	RaffleID       string
	Status         domain.RaffleStatus
	Issues         []string
	EscrowBalance  decimal.Decimal
	EscrowedFunds  decimal.Decimal
	FeesCollected  decimal.Decimal
	PaidOut        decimal.Decimal
	EntryTotal     int64
	CurrentEntries int64
	Consistent     bool
}

func (r *RaffleReport) addIssue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

// VerifyRaffle recomputes a raffle's invariants from its entry ledger, its
// escrow account with the transfers that touched it, and its prize asset. A
// recorded draw is re-resolved from the stored seed.
func (uc *ReconciliationUseCase) VerifyRaffle(ctx context.Context, raffleID string) (*RaffleReport, error) {
	raffle, err := uc.raffleRepo.GetByID(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.loadEntries(ctx, raffleID)
	if err != nil {
		return nil, err
	}

	report := &RaffleReport{
		RaffleID:       raffle.ID,
		Status:         raffle.Status,
		CurrentEntries: raffle.CurrentEntries,
		EscrowedFunds:  raffle.EscrowedFunds,
		EntryTotal:     domain.TotalEntries(entries),
		CheckedAt:      uc.clock.Now(),
	}

	if err := domain.CheckContiguous(entries); err != nil {
		report.addIssue("entry ranges are not contiguous")
	}

	if report.EntryTotal != raffle.CurrentEntries {
		report.addIssue("entry total %d does not match current entries %d", report.EntryTotal, raffle.CurrentEntries)
	}

	if raffle.MaxEntries > 0 && raffle.CurrentEntries > raffle.MaxEntries {
		report.addIssue("current entries %d exceed max entries %d", raffle.CurrentEntries, raffle.MaxEntries)
	}

	if !raffle.EscrowedFunds.Equal(raffle.ExpectedEscrow()) {
		report.addIssue("escrowed funds %s, expected %s", raffle.EscrowedFunds, raffle.ExpectedEscrow())
	}

	escrow, err := uc.accountRepo.GetByID(ctx, raffle.EscrowAccountID)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		report.addIssue("escrow account %s is missing", raffle.EscrowAccountID)
	case err != nil:
		return nil, err
	default:
		report.EscrowBalance = escrow.Balance
		if !escrow.Balance.Equal(raffle.EscrowedFunds) {
			report.addIssue("escrow balance %s does not match escrowed funds %s", escrow.Balance, raffle.EscrowedFunds)
		}
	}

	if err := uc.verifyEscrowTrail(ctx, raffle, report); err != nil {
		return nil, err
	}

	drawn := raffle.Status == domain.RaffleStatusWinnerDrawn || raffle.Status == domain.RaffleStatusClaimed
	if drawn != raffle.HasWinner() {
		report.addIssue("status %s inconsistent with winner presence", raffle.Status)
	}

	if raffle.HasWinner() {
		uc.verifyDraw(raffle, entries, report)
	}

	if err := uc.verifyCustody(ctx, raffle, report); err != nil {
		return nil, err
	}

	report.Consistent = len(report.Issues) == 0

	return report, nil
}

// verifyEscrowTrail replays the transfers of the escrow account. Fees only
// flow in while the raffle is open, and the single payout to the authority
// happens at claim time.
func (uc *ReconciliationUseCase) verifyEscrowTrail(ctx context.Context, raffle *domain.Raffle, report *RaffleReport) error {
	transfers, err := uc.loadTransfers(ctx, raffle.EscrowAccountID)
	if err != nil {
		return err
	}

	report.FeesCollected = decimal.Zero
	report.PaidOut = decimal.Zero
	payouts := 0

	for _, t := range transfers {
		switch raffle.EscrowAccountID {
		case t.ToAccountID:
			report.FeesCollected = report.FeesCollected.Add(t.Amount)
		case t.FromAccountID:
			payouts++
			report.PaidOut = report.PaidOut.Add(t.Amount)
			if t.ToAccountID != raffle.Authority {
				report.addIssue("escrow paid %s to %s instead of the authority", t.Amount, t.ToAccountID)
			}
		}
	}

	if fees := raffle.Cost(raffle.CurrentEntries); !report.FeesCollected.Equal(fees) {
		report.addIssue("escrow received %s in fees, expected %s", report.FeesCollected, fees)
	}

	switch {
	case raffle.Status != domain.RaffleStatusClaimed && payouts > 0:
		report.addIssue("escrow paid out before the prize was claimed")
	case raffle.Status == domain.RaffleStatusClaimed && !report.PaidOut.Equal(report.FeesCollected):
		report.addIssue("escrow paid out %s of %s collected", report.PaidOut, report.FeesCollected)
	case payouts > 1:
		report.addIssue("escrow paid out in %d transfers", payouts)
	}

	return nil
}

func (uc *ReconciliationUseCase) verifyDraw(raffle *domain.Raffle, entries []*domain.Entry, report *RaffleReport) {
	seed, err := domain.ParseSeed(raffle.DrawSeed)
	if err != nil {
		report.addIssue("stored draw seed is invalid")
		return
	}

	index, err := seed.WinningIndex(raffle.CurrentEntries)
	if err != nil {
		report.addIssue("draw recorded with no entries")
		return
	}

	if raffle.WinningIndex == nil || *raffle.WinningIndex != index {
		report.addIssue("recorded winning index does not match seed (expected %d)", index)
	}

	winner, err := domain.ResolveEntrant(entries, index)
	if err != nil {
		report.addIssue("winning index %d does not resolve to an entry", index)
		return
	}

	if winner != *raffle.Winner {
		report.addIssue("recorded winner %s, entry ledger resolves to %s", *raffle.Winner, winner)
	}
}

func (uc *ReconciliationUseCase) verifyCustody(ctx context.Context, raffle *domain.Raffle, report *RaffleReport) error {
	asset, err := uc.assetRepo.GetByID(ctx, raffle.PrizeAssetID)
	if errors.Is(err, domain.ErrAssetNotFound) {
		report.addIssue("prize asset %s is missing", raffle.PrizeAssetID)
		return nil
	}
	if err != nil {
		return err
	}

	expected := raffle.EscrowAccountID
	if raffle.Status == domain.RaffleStatusClaimed {
		expected = *raffle.Winner
	}

	if asset.Owner != expected {
		report.addIssue("prize asset held by %s, expected %s", asset.Owner, expected)
	}

	return nil
}

func (uc *ReconciliationUseCase) loadEntries(ctx context.Context, raffleID string) ([]*domain.Entry, error) {
	var all []*domain.Entry

	for offset := 0; ; offset += reconciliationPageSize {
		page, err := uc.entryRepo.ListByRaffle(ctx, raffleID, reconciliationPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < reconciliationPageSize {
			return all, nil
		}
	}
}

func (uc *ReconciliationUseCase) loadTransfers(ctx context.Context, accountID string) ([]*domain.Transfer, error) {
	var all []*domain.Transfer

	for offset := 0; ; offset += reconciliationPageSize {
		page, err := uc.transferRepo.ListByAccount(ctx, accountID, reconciliationPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < reconciliationPageSize {
			return all, nil
		}
	}
}

// CheckLedgerConsistency verifies double-entry bookkeeping consistency:
// account balances and postings must both sum to zero.
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	totalBalance, totalPostings, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return err
	}

	if !totalBalance.IsZero() || !totalPostings.IsZero() {
		return fmt.Errorf(
			"ledger inconsistency detected: balances=%s postings=%s",
			totalBalance.String(),
			totalPostings.String(),
		)
	}

	return nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	CheckedAt         time.Time
	Discrepancies     []*RaffleReport
	TotalRaffles      int
	ConsistentRaffles int
	LedgerConsistent  bool
}

// GenerateReconciliationReport verifies every raffle and the token ledger.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		Discrepancies: make([]*RaffleReport, 0),
		CheckedAt:     uc.clock.Now(),
	}

	for offset := 0; ; offset += reconciliationPageSize {
		raffles, err := uc.raffleRepo.List(ctx, "", reconciliationPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, r := range raffles {
			result, err := uc.VerifyRaffle(ctx, r.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to verify raffle %s: %w", r.ID, err)
			}

			report.TotalRaffles++
			if result.Consistent {
				report.ConsistentRaffles++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(raffles) < reconciliationPageSize {
			break
		}
	}

	report.LedgerConsistent = uc.CheckLedgerConsistency(ctx) == nil

	return report, nil
}
