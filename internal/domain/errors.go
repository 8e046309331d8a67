package domain

import "errors"

var (
	// Input validation
	ErrInvalidEntryAmount = errors.New("invalid entry amount")
	ErrInvalidDeadline    = errors.New("end timestamp must be in the future")
	ErrNoEntries          = errors.New("raffle has no entries")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrInvalidSeed        = errors.New("invalid seed")
	ErrInvalidStatus      = errors.New("invalid raffle status")

	// State and timing
	ErrRaffleNotFound    = errors.New("raffle not found")
	ErrRaffleNotEnded    = errors.New("raffle has not ended yet")
	ErrRaffleEnded       = errors.New("raffle has already ended")
	ErrMaxEntriesReached = errors.New("maximum entries reached")
	ErrDrawNotComplete   = errors.New("winner has not been drawn")
	ErrAlreadyDrawn      = errors.New("winner already drawn")

	// Authorization
	ErrNotWinner    = errors.New("not the winner")
	ErrNotAuthority = errors.New("caller is not the raffle authority")

	// Terminal
	ErrPrizeAlreadyClaimed = errors.New("prize already claimed")

	// Custody primitives
	ErrTransferFailed     = errors.New("transfer failed")
	ErrAssetNotFound      = errors.New("prize asset not found")
	ErrAssetNotOwned      = errors.New("prize asset not owned by sender")
	ErrEntropyUnavailable = errors.New("entropy not yet available")

	// Entry ledger
	ErrEntryNotFound      = errors.New("entry index not found")
	ErrEntryLedgerCorrupt = errors.New("entry ledger ranges are not contiguous")

	// Token accounts
	ErrNegativeBalanceNotAllowed = errors.New("account does not allow negative balance")
	ErrPositiveBalanceNotAllowed = errors.New("account does not allow positive balance")
	ErrAccountNotFound           = errors.New("account not found")
	ErrAccountExists             = errors.New("account already exists")
	ErrSameAccount               = errors.New("cannot transfer to same account")
	ErrInvalidAmount             = errors.New("amount must be positive")
	ErrCurrencyMismatch          = errors.New("cannot transfer between different tokens")
)
