package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
)

// TokenLedger moves fungible tokens between accounts with double-entry
// postings. It always runs inside a caller-owned transaction so token
// movements commit atomically with the state change that caused them.
type TokenLedger struct {
	accountRepo  AccountRepository
	transferRepo TransferRepository
	postingRepo  PostingRepository
	idGen        IDGenerator
}

// NewTokenLedger creates a new TokenLedger.
func NewTokenLedger(
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	postingRepo PostingRepository,
	idGen IDGenerator,
) *TokenLedger {
	return &TokenLedger{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		postingRepo:  postingRepo,
		idGen:        idGen,
	}
}

// OpenAccount creates an account inside tx.
func (l *TokenLedger) OpenAccount(ctx context.Context, tx Transaction, account *domain.Account) error {
	return l.accountRepo.CreateTx(ctx, tx, account)
}

// RequireAccounts locks the given accounts and fails with
// domain.ErrAccountNotFound if any of them is missing.
func (l *TokenLedger) RequireAccounts(ctx context.Context, tx Transaction, ids ...string) (map[string]*domain.Account, error) {
	ids = uniqueSorted(ids)

	// Lock accounts in sorted order
	accounts, err := l.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	m := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}

	return m, nil
}

// Transfer moves amount from one account to another inside tx.
func (l *TokenLedger) Transfer(
	ctx context.Context,
	tx Transaction,
	fromID, toID string,
	amount decimal.Decimal,
	metadata map[string]any,
	now time.Time,
) (*domain.Transfer, error) {
	transfer := &domain.Transfer{
		ID:            l.idGen.Generate(),
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Metadata:      metadata,
		CreatedAt:     now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	accounts, err := l.RequireAccounts(ctx, tx, fromID, toID)
	if err != nil {
		return nil, err
	}

	fromAccount := accounts[fromID]
	toAccount := accounts[toID]

	if fromAccount.Currency != toAccount.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	if err := fromAccount.ValidateDebit(amount); err != nil {
		return nil, err
	}

	if err := toAccount.ValidateCredit(amount); err != nil {
		return nil, err
	}

	if err := l.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := l.post(ctx, tx, fromAccount, transfer.ID, amount.Neg(), now); err != nil {
		return nil, err
	}

	if err := l.post(ctx, tx, toAccount, transfer.ID, amount, now); err != nil {
		return nil, err
	}

	return transfer, nil
}

// post writes one side of a transfer and applies it to the account balance.
func (l *TokenLedger) post(ctx context.Context, tx Transaction, account *domain.Account, transferID string, amount decimal.Decimal, now time.Time) error {
	newBalance := account.Balance.Add(amount)

	posting := &domain.Posting{
		ID:                     l.idGen.Generate(),
		AccountID:              account.ID,
		TransferID:             transferID,
		Amount:                 amount,
		AccountPreviousBalance: account.Balance,
		AccountCurrentBalance:  newBalance,
		AccountVersion:         account.Version + 1,
		CreatedAt:              now,
	}

	if err := l.postingRepo.Create(ctx, tx, posting); err != nil {
		return err
	}

	if err := l.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	account.Balance = newBalance
	account.Version++

	return nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
