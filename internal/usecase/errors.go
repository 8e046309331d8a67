package usecase

import (
	"errors"
	"fmt"

	"github.com/iho/goraffle/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// transferFailed wraps a custody failure so both the sentinel and the
// underlying cause are matchable with errors.Is.
func transferFailed(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
}

var errorLabels = []struct {
	err   error
	label string
}{
	{domain.ErrTransferFailed, "transfer_failed"},
	{domain.ErrInvalidEntryAmount, "invalid_entry_amount"},
	{domain.ErrInvalidDeadline, "invalid_deadline"},
	{domain.ErrInvalidIdentity, "invalid_identity"},
	{domain.ErrNoEntries, "no_entries"},
	{domain.ErrRaffleNotFound, "raffle_not_found"},
	{domain.ErrRaffleNotEnded, "raffle_not_ended"},
	{domain.ErrRaffleEnded, "raffle_ended"},
	{domain.ErrMaxEntriesReached, "max_entries_reached"},
	{domain.ErrDrawNotComplete, "draw_not_complete"},
	{domain.ErrAlreadyDrawn, "already_drawn"},
	{domain.ErrNotWinner, "not_winner"},
	{domain.ErrNotAuthority, "not_authority"},
	{domain.ErrPrizeAlreadyClaimed, "prize_already_claimed"},
	{domain.ErrEntropyUnavailable, "entropy_unavailable"},
	{domain.ErrEntryLedgerCorrupt, "entry_ledger_corrupt"},
}

// errorLabel returns a low-cardinality metric label for err.
func errorLabel(err error) string {
	for _, l := range errorLabels {
		if errors.Is(err, l.err) {
			return l.label
		}
	}
	return "internal"
}
