package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a token account. Its ID is the owning identity, the issuer id,
// or EscrowAccountID for the account a raffle collects fees into.
type Account struct {
	ID                   string
	Currency             string
	Balance              decimal.Decimal
	Version              int64
	AllowNegativeBalance bool
	AllowPositiveBalance bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewWalletAccount returns an empty account for a participant or authority.
// Wallets can hold tokens but never go below zero.
func NewWalletAccount(owner, currency string, now time.Time) *Account {
	return newAccount(owner, currency, false, true, now)
}

// NewIssuerAccount returns the mint. Its balance is the negative of the
// circulating supply, so it can never turn positive.
func NewIssuerAccount(id, currency string, now time.Time) *Account {
	return newAccount(id, currency, true, false, now)
}

// NewEscrowAccount returns the token account that holds a raffle's fees.
func NewEscrowAccount(raffleID, currency string, now time.Time) *Account {
	return newAccount(EscrowAccountID(raffleID), currency, false, true, now)
}

func newAccount(id, currency string, allowNegative, allowPositive bool, now time.Time) *Account {
	return &Account{
		ID:                   id,
		Currency:             currency,
		Balance:              decimal.Zero,
		AllowNegativeBalance: allowNegative,
		AllowPositiveBalance: allowPositive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// ValidateDebit reports whether amount can leave the account.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.AllowNegativeBalance {
		return nil
	}
	if a.Balance.LessThan(amount) {
		return ErrNegativeBalanceNotAllowed
	}
	return nil
}

// ValidateCredit reports whether amount can be paid into the account.
func (a *Account) ValidateCredit(amount decimal.Decimal) error {
	if !a.AllowPositiveBalance && a.Balance.Add(amount).IsPositive() {
		return ErrPositiveBalanceNotAllowed
	}
	return nil
}
