package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a token movement between two accounts.
type Transfer struct {
	CreatedAt     time.Time
	Metadata      map[string]any
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// Validate validates transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// Posting is one side (debit or credit) of a transfer against an account.
type Posting struct {
	CreatedAt              time.Time
	ID                     string
	AccountID              string
	TransferID             string
	Amount                 decimal.Decimal
	AccountPreviousBalance decimal.Decimal
	AccountCurrentBalance  decimal.Decimal
	AccountVersion         int64
}
