package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RaffleStatus is the lifecycle state of a raffle.
type RaffleStatus string

const (
	RaffleStatusActive      RaffleStatus = "active"
	RaffleStatusEnded       RaffleStatus = "ended"
	RaffleStatusWinnerDrawn RaffleStatus = "winner_drawn"
	RaffleStatusClaimed     RaffleStatus = "claimed"
)

var statusRank = map[RaffleStatus]int{
	RaffleStatusActive:      0,
	RaffleStatusEnded:       1,
	RaffleStatusWinnerDrawn: 2,
	RaffleStatusClaimed:     3,
}

// IsValid reports whether s is a known status.
func (s RaffleStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next keeps status monotonic.
func (s RaffleStatus) CanAdvanceTo(next RaffleStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Raffle is the persisted raffle record.
type Raffle struct {
	CreatedAt       time.Time
	UpdatedAt       time.Time
	EndTimestamp    time.Time
	DrawnAt         *time.Time
	ClaimedAt       *time.Time
	Winner          *string
	DrawBlockNumber *uint64
	WinningIndex    *int64
	ID              string
	Authority       string
	PrizeAssetID    string
	EscrowAccountID string
	DrawSeed        string
	DrawBlockHash   string
	Status          RaffleStatus
	EntryPrice      decimal.Decimal
	EscrowedFunds   decimal.Decimal
	MaxEntries      int64
	CurrentEntries  int64
	Version         int64
}

// EscrowAccountID returns the escrow identity that holds a raffle's fees and prize.
func EscrowAccountID(raffleID string) string {
	return "raffle:" + raffleID + ":escrow"
}

// Validate checks the immutable configuration of a new raffle.
func (r *Raffle) Validate(now time.Time) error {
	if r.Authority == "" {
		return ErrInvalidIdentity
	}
	if r.PrizeAssetID == "" {
		return ErrAssetNotFound
	}
	if err := ValidateEntryPrice(r.EntryPrice); err != nil {
		return err
	}
	if r.MaxEntries < 0 {
		return ErrInvalidEntryAmount
	}
	if !r.EndTimestamp.After(now) {
		return ErrInvalidDeadline
	}
	return nil
}

// HasWinner reports whether a winner has been drawn.
func (r *Raffle) HasWinner() bool {
	return r.Winner != nil
}

// DeadlinePassed reports whether entry is closed at now.
func (r *Raffle) DeadlinePassed(now time.Time) bool {
	return !now.Before(r.EndTimestamp)
}

// Cost returns the token amount due for n entries.
func (r *Raffle) Cost(n int64) decimal.Decimal {
	return r.EntryPrice.Mul(decimal.NewFromInt(n))
}

// CheckEnter validates an entry purchase of n entries at now.
// Status and deadline are checked together since the status may be stale.
func (r *Raffle) CheckEnter(now time.Time, n int64) error {
	if n <= 0 {
		return ErrInvalidEntryAmount
	}
	if r.Status != RaffleStatusActive || r.DeadlinePassed(now) {
		return ErrRaffleEnded
	}
	if r.CurrentEntries > maxEntryIndex-n {
		return ErrInvalidEntryAmount
	}
	if r.MaxEntries > 0 && r.CurrentEntries+n > r.MaxEntries {
		return ErrMaxEntriesReached
	}
	return nil
}

// ApplyEnter records n purchased entries and returns the new entry range.
func (r *Raffle) ApplyEnter(entrant string, n int64, now time.Time) *Entry {
	entry := &Entry{
		RaffleID:   r.ID,
		Entrant:    entrant,
		StartIndex: r.CurrentEntries,
		Count:      n,
		CreatedAt:  now,
	}
	r.CurrentEntries += n
	r.EscrowedFunds = r.EscrowedFunds.Add(r.Cost(n))
	r.UpdatedAt = now
	return entry
}

// CheckClose validates moving an active raffle to ended.
func (r *Raffle) CheckClose(now time.Time) error {
	if !r.DeadlinePassed(now) {
		return ErrRaffleNotEnded
	}
	return nil
}

// CheckDraw validates a draw request by caller at now.
func (r *Raffle) CheckDraw(caller string, now time.Time) error {
	if caller != r.Authority {
		return ErrNotAuthority
	}
	if r.HasWinner() || (r.Status != RaffleStatusActive && r.Status != RaffleStatusEnded) {
		return ErrAlreadyDrawn
	}
	if !r.DeadlinePassed(now) {
		return ErrRaffleNotEnded
	}
	if r.CurrentEntries <= 0 {
		return ErrNoEntries
	}
	return nil
}

// ApplyDraw records the winner and the entropy it was selected with.
func (r *Raffle) ApplyDraw(winner string, index int64, entropy Entropy, now time.Time) {
	blockNumber := entropy.BlockNumber
	r.Winner = &winner
	r.WinningIndex = &index
	r.DrawSeed = entropy.Seed.Hex()
	r.DrawBlockNumber = &blockNumber
	r.DrawBlockHash = entropy.BlockHash
	r.DrawnAt = &now
	r.Status = RaffleStatusWinnerDrawn
	r.UpdatedAt = now
}

// CheckClaim validates a prize claim by caller.
func (r *Raffle) CheckClaim(caller string) error {
	if !r.HasWinner() {
		return ErrDrawNotComplete
	}
	if *r.Winner != caller {
		return ErrNotWinner
	}
	if r.Status == RaffleStatusClaimed {
		return ErrPrizeAlreadyClaimed
	}
	if r.Status != RaffleStatusWinnerDrawn {
		return ErrDrawNotComplete
	}
	return nil
}

// ApplyClaim marks the prize as claimed and the escrow as paid out.
func (r *Raffle) ApplyClaim(now time.Time) {
	r.Status = RaffleStatusClaimed
	r.EscrowedFunds = decimal.Zero
	r.ClaimedAt = &now
	r.UpdatedAt = now
}

// ExpectedEscrow is the amount the escrow must hold before the claim.
func (r *Raffle) ExpectedEscrow() decimal.Decimal {
	if r.Status == RaffleStatusClaimed {
		return decimal.Zero
	}
	return r.Cost(r.CurrentEntries)
}
