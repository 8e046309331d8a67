package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
	"github.com/iho/goraffle/tests/testutil"
)

func TestRaffleLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	// alice holds indices 0..2 and bob 3..4, so seed 4 selects bob
	stack := testutil.NewStack(t, domain.SeedFromUint64(4))

	stack.FundedAccount(t, "carol", 0)
	stack.FundedAccount(t, "alice", 100)
	stack.FundedAccount(t, "bob", 100)
	prize := stack.Prize(t, "carol")

	raffle, err := stack.Raffles.InitializeRaffle(ctx, usecase.InitializeRaffleInput{
		Caller:       "carol",
		PrizeAssetID: prize.ID,
		EntryPrice:   decimal.NewFromInt(10),
		MaxEntries:   10,
		EndTimestamp: stack.Clock.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to initialize raffle: %v", err)
	}

	if raffle.Status != domain.RaffleStatusActive {
		t.Fatalf("expected active raffle, got %s", raffle.Status)
	}

	asset, err := stack.Assets.GetAsset(ctx, prize.ID)
	if err != nil {
		t.Fatalf("failed to load prize: %v", err)
	}
	if asset.Owner != raffle.EscrowAccountID {
		t.Fatalf("expected prize in escrow, held by %s", asset.Owner)
	}

	first, err := stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "alice", RaffleID: raffle.ID, NumEntries: 3})
	if err != nil {
		t.Fatalf("alice failed to enter: %v", err)
	}
	if first.Entry.StartIndex != 0 || first.Entry.Count != 3 {
		t.Fatalf("unexpected first range [%d,+%d)", first.Entry.StartIndex, first.Entry.Count)
	}

	second, err := stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "bob", RaffleID: raffle.ID, NumEntries: 2})
	if err != nil {
		t.Fatalf("bob failed to enter: %v", err)
	}
	if second.Entry.StartIndex != 3 {
		t.Fatalf("expected bob to start at 3, got %d", second.Entry.StartIndex)
	}

	if got := stack.Balance(t, raffle.EscrowAccountID); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected escrow 50, got %s", got)
	}
	if got := stack.Balance(t, "alice"); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected alice 70, got %s", got)
	}

	_, err = stack.Raffles.DrawWinner(ctx, usecase.DrawWinnerInput{Caller: "carol", RaffleID: raffle.ID})
	if !errors.Is(err, domain.ErrRaffleNotEnded) {
		t.Fatalf("expected ErrRaffleNotEnded before deadline, got %v", err)
	}

	stack.Clock.Advance(time.Hour)

	_, err = stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "alice", RaffleID: raffle.ID, NumEntries: 1})
	if !errors.Is(err, domain.ErrRaffleEnded) {
		t.Fatalf("expected ErrRaffleEnded at the deadline, got %v", err)
	}

	_, err = stack.Raffles.DrawWinner(ctx, usecase.DrawWinnerInput{Caller: "bob", RaffleID: raffle.ID})
	if !errors.Is(err, domain.ErrNotAuthority) {
		t.Fatalf("expected ErrNotAuthority, got %v", err)
	}

	drawn, err := stack.Raffles.DrawWinner(ctx, usecase.DrawWinnerInput{Caller: "carol", RaffleID: raffle.ID})
	if err != nil {
		t.Fatalf("failed to draw: %v", err)
	}
	if drawn.Winner == nil || *drawn.Winner != "bob" {
		t.Fatalf("expected bob to win, got %v", drawn.Winner)
	}
	if drawn.WinningIndex == nil || *drawn.WinningIndex != 4 {
		t.Fatalf("expected winning index 4, got %v", drawn.WinningIndex)
	}

	_, err = stack.Raffles.DrawWinner(ctx, usecase.DrawWinnerInput{Caller: "carol", RaffleID: raffle.ID})
	if !errors.Is(err, domain.ErrAlreadyDrawn) {
		t.Fatalf("expected ErrAlreadyDrawn, got %v", err)
	}

	_, err = stack.Raffles.ClaimPrize(ctx, usecase.ClaimPrizeInput{Caller: "alice", RaffleID: raffle.ID})
	if !errors.Is(err, domain.ErrNotWinner) {
		t.Fatalf("expected ErrNotWinner, got %v", err)
	}

	claimed, err := stack.Raffles.ClaimPrize(ctx, usecase.ClaimPrizeInput{Caller: "bob", RaffleID: raffle.ID})
	if err != nil {
		t.Fatalf("failed to claim: %v", err)
	}
	if claimed.Status != domain.RaffleStatusClaimed {
		t.Fatalf("expected claimed status, got %s", claimed.Status)
	}

	_, err = stack.Raffles.ClaimPrize(ctx, usecase.ClaimPrizeInput{Caller: "bob", RaffleID: raffle.ID})
	if !errors.Is(err, domain.ErrPrizeAlreadyClaimed) {
		t.Fatalf("expected ErrPrizeAlreadyClaimed, got %v", err)
	}

	asset, err = stack.Assets.GetAsset(ctx, prize.ID)
	if err != nil {
		t.Fatalf("failed to load prize: %v", err)
	}
	if asset.Owner != "bob" {
		t.Fatalf("expected bob to hold the prize, got %s", asset.Owner)
	}

	if got := stack.Balance(t, "carol"); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected authority to collect 50, got %s", got)
	}
	if got := stack.Balance(t, raffle.EscrowAccountID); !got.IsZero() {
		t.Fatalf("expected empty escrow, got %s", got)
	}

	report, err := stack.Reconciliation.VerifyRaffle(ctx, raffle.ID)
	if err != nil {
		t.Fatalf("failed to verify raffle: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("expected consistent raffle, issues: %v", report.Issues)
	}

	if err := stack.Reconciliation.CheckLedgerConsistency(ctx); err != nil {
		t.Fatalf("ledger inconsistent: %v", err)
	}
}

func TestRaffleEdgeCases(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := testutil.NewStack(t, domain.SeedFromUint64(0))

	stack.FundedAccount(t, "host", 0)
	stack.FundedAccount(t, "player", 25)

	newRaffle := func(t *testing.T, maxEntries int64) *domain.Raffle {
		t.Helper()
		prize := stack.Prize(t, "host")
		raffle, err := stack.Raffles.InitializeRaffle(ctx, usecase.InitializeRaffleInput{
			Caller:       "host",
			PrizeAssetID: prize.ID,
			EntryPrice:   decimal.NewFromInt(10),
			MaxEntries:   maxEntries,
			EndTimestamp: stack.Clock.Now().Add(time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to initialize raffle: %v", err)
		}
		return raffle
	}

	t.Run("prize not held by caller", func(t *testing.T) {
		prize := stack.Prize(t, "host")
		_, err := stack.Raffles.InitializeRaffle(ctx, usecase.InitializeRaffleInput{
			Caller:       "player",
			PrizeAssetID: prize.ID,
			EntryPrice:   decimal.NewFromInt(1),
			EndTimestamp: stack.Clock.Now().Add(time.Minute),
		})
		if !errors.Is(err, domain.ErrTransferFailed) {
			t.Fatalf("expected ErrTransferFailed, got %v", err)
		}
	})

	t.Run("deadline in the past", func(t *testing.T) {
		prize := stack.Prize(t, "host")
		_, err := stack.Raffles.InitializeRaffle(ctx, usecase.InitializeRaffleInput{
			Caller:       "host",
			PrizeAssetID: prize.ID,
			EntryPrice:   decimal.NewFromInt(1),
			EndTimestamp: stack.Clock.Now(),
		})
		if !errors.Is(err, domain.ErrInvalidDeadline) {
			t.Fatalf("expected ErrInvalidDeadline, got %v", err)
		}
	})

	t.Run("entry cap", func(t *testing.T) {
		raffle := newRaffle(t, 1)

		if _, err := stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "player", RaffleID: raffle.ID, NumEntries: 2}); !errors.Is(err, domain.ErrMaxEntriesReached) {
			t.Fatalf("expected ErrMaxEntriesReached, got %v", err)
		}
		if _, err := stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "player", RaffleID: raffle.ID, NumEntries: 0}); !errors.Is(err, domain.ErrInvalidEntryAmount) {
			t.Fatalf("expected ErrInvalidEntryAmount, got %v", err)
		}
	})

	t.Run("insufficient balance leaves no trace", func(t *testing.T) {
		raffle := newRaffle(t, 0)
		before := stack.Balance(t, "player")

		_, err := stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "player", RaffleID: raffle.ID, NumEntries: 5})
		if !errors.Is(err, domain.ErrTransferFailed) {
			t.Fatalf("expected ErrTransferFailed, got %v", err)
		}

		if got := stack.Balance(t, "player"); !got.Equal(before) {
			t.Fatalf("balance changed from %s to %s", before, got)
		}

		stored, err := stack.Raffles.GetRaffle(ctx, raffle.ID)
		if err != nil {
			t.Fatalf("failed to reload raffle: %v", err)
		}
		if stored.CurrentEntries != 0 || !stored.EscrowedFunds.IsZero() {
			t.Fatalf("raffle mutated by failed entry: %d entries, %s escrowed", stored.CurrentEntries, stored.EscrowedFunds)
		}
	})

	t.Run("draw with no entries", func(t *testing.T) {
		raffle := newRaffle(t, 0)
		stack.Clock.Advance(time.Minute)

		_, err := stack.Raffles.DrawWinner(ctx, usecase.DrawWinnerInput{Caller: "host", RaffleID: raffle.ID})
		if !errors.Is(err, domain.ErrNoEntries) {
			t.Fatalf("expected ErrNoEntries, got %v", err)
		}
	})

	t.Run("claim before draw", func(t *testing.T) {
		raffle := newRaffle(t, 0)

		_, err := stack.Raffles.ClaimPrize(ctx, usecase.ClaimPrizeInput{Caller: "player", RaffleID: raffle.ID})
		if !errors.Is(err, domain.ErrDrawNotComplete) {
			t.Fatalf("expected ErrDrawNotComplete, got %v", err)
		}
	})

	t.Run("close then draw", func(t *testing.T) {
		raffle := newRaffle(t, 0)

		if _, err := stack.Raffles.EnterRaffle(ctx, usecase.EnterRaffleInput{Caller: "player", RaffleID: raffle.ID, NumEntries: 1}); err != nil {
			t.Fatalf("failed to enter: %v", err)
		}

		if _, err := stack.Raffles.CloseRaffle(ctx, raffle.ID); !errors.Is(err, domain.ErrRaffleNotEnded) {
			t.Fatalf("expected ErrRaffleNotEnded, got %v", err)
		}

		stack.Clock.Advance(time.Minute)

		closed, err := stack.Raffles.CloseRaffle(ctx, raffle.ID)
		if err != nil {
			t.Fatalf("failed to close: %v", err)
		}
		if closed.Status != domain.RaffleStatusEnded {
			t.Fatalf("expected ended, got %s", closed.Status)
		}

		drawn, err := stack.Raffles.DrawWinner(ctx, usecase.DrawWinnerInput{Caller: "host", RaffleID: raffle.ID})
		if err != nil {
			t.Fatalf("failed to draw: %v", err)
		}
		if *drawn.Winner != "player" {
			t.Fatalf("expected player to win, got %s", *drawn.Winner)
		}
	})

	t.Run("unknown raffle", func(t *testing.T) {
		_, err := stack.Raffles.GetRaffle(ctx, testutil.GenerateID())
		if !errors.Is(err, domain.ErrRaffleNotFound) {
			t.Fatalf("expected ErrRaffleNotFound, got %v", err)
		}
	})
}

func TestSweepExpiredClosesRaffles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := testutil.NewStack(t, domain.SeedFromUint64(0))
	stack.FundedAccount(t, "host", 0)

	var ids []string
	for range 3 {
		prize := stack.Prize(t, "host")
		raffle, err := stack.Raffles.InitializeRaffle(ctx, usecase.InitializeRaffleInput{
			Caller:       "host",
			PrizeAssetID: prize.ID,
			EntryPrice:   decimal.NewFromInt(1),
			EndTimestamp: stack.Clock.Now().Add(time.Minute),
		})
		if err != nil {
			t.Fatalf("failed to initialize raffle: %v", err)
		}
		ids = append(ids, raffle.ID)
	}

	closed, err := stack.Raffles.SweepExpired(ctx, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected nothing to sweep before the deadline, closed %d", closed)
	}

	stack.Clock.Advance(time.Minute)

	closed, err = stack.Raffles.SweepExpired(ctx, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != len(ids) {
		t.Fatalf("expected %d raffles closed, got %d", len(ids), closed)
	}

	for _, id := range ids {
		raffle, err := stack.Raffles.GetRaffle(ctx, id)
		if err != nil {
			t.Fatalf("failed to reload raffle: %v", err)
		}
		if raffle.Status != domain.RaffleStatusEnded {
			t.Fatalf("raffle %s not ended: %s", id, raffle.Status)
		}
	}
}
