package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransfer_Validate(t *testing.T) {
	escrow := EscrowAccountID("r1")

	tests := []struct {
		name    string
		from    string
		to      string
		amount  decimal.Decimal
		wantErr error
	}{
		{"entry fee into escrow", "alice", escrow, decimal.NewFromInt(20), nil},
		{"payout from escrow", escrow, "carol", decimal.NewFromInt(50), nil},
		{"mint from issuer", "issuer", "alice", decimal.RequireFromString("0.01"), nil},
		{"escrow to itself", escrow, escrow, decimal.NewFromInt(1), ErrSameAccount},
		{"zero fee", "alice", escrow, decimal.Zero, ErrInvalidAmount},
		{"negative fee", "alice", escrow, decimal.NewFromInt(-10), ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer := &Transfer{
				FromAccountID: tt.from,
				ToAccountID:   tt.to,
				Amount:        tt.amount,
			}

			if err := transfer.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
