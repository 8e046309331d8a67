package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/usecase"
)

// InitializeRaffleRequest opens a raffle for a prize the caller holds.
type InitializeRaffleRequest struct {
	EndTimestamp time.Time       `json:"end_timestamp"`
	PrizeAssetID string          `json:"prize_asset_id"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	MaxEntries   int64           `json:"max_entries"`
}

// ToUseCaseInput converts to use case input.
func (r *InitializeRaffleRequest) ToUseCaseInput(caller string) usecase.InitializeRaffleInput {
	return usecase.InitializeRaffleInput{
		EndTimestamp: r.EndTimestamp,
		Caller:       caller,
		PrizeAssetID: r.PrizeAssetID,
		EntryPrice:   r.EntryPrice,
		MaxEntries:   r.MaxEntries,
	}
}

// EnterRaffleRequest buys entries in a raffle.
type EnterRaffleRequest struct {
	NumEntries int64 `json:"num_entries"`
}

// ToUseCaseInput converts to use case input.
func (r *EnterRaffleRequest) ToUseCaseInput(caller, raffleID string) usecase.EnterRaffleInput {
	return usecase.EnterRaffleInput{
		Caller:     caller,
		RaffleID:   raffleID,
		NumEntries: r.NumEntries,
	}
}

// CreateAccountRequest represents a request to create an account. Owner
// defaults to the caller.
type CreateAccountRequest struct {
	Owner string `json:"owner,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(caller string) usecase.CreateAccountInput {
	owner := r.Owner
	if owner == "" {
		owner = caller
	}
	return usecase.CreateAccountInput{Owner: owner}
}

// MintRequest credits an account from the issuer.
type MintRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *MintRequest) ToUseCaseInput(accountID string) usecase.MintInput {
	return usecase.MintInput{
		AccountID: accountID,
		Amount:    r.Amount,
	}
}

// RegisterAssetRequest mints a prize asset into an owner's custody.
type RegisterAssetRequest struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	Name     string         `json:"name"`
	Owner    string         `json:"owner"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterAssetRequest) ToUseCaseInput() usecase.RegisterAssetInput {
	return usecase.RegisterAssetInput{
		Metadata: r.Metadata,
		Owner:    r.Owner,
		Name:     r.Name,
	}
}
