package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/postgres/generated"
	"github.com/iho/goraffle/internal/usecase"
)

// AccountRepository stores token balances: player wallets, the issuer and
// the per-raffle escrow accounts. Balances only change through
// UpdateBalance inside a transfer's transaction.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create opens a wallet outside of any transaction.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return insertAccount(ctx, r.queries, account)
}

// CreateTx opens an account inside tx. Escrow accounts are created this way
// together with the raffle that owns them.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return insertAccount(ctx, txQueries(tx), account)
}

func insertAccount(ctx context.Context, q *generated.Queries, a *domain.Account) error {
	params := generated.CreateAccountParams{
		ID:                   a.ID,
		Currency:             a.Currency,
		Balance:              decimalToNumeric(a.Balance),
		Version:              a.Version,
		AllowNegativeBalance: a.AllowNegativeBalance,
		AllowPositiveBalance: a.AllowPositiveBalance,
		CreatedAt:            timeToPgTimestamptz(a.CreatedAt),
		UpdatedAt:            timeToPgTimestamptz(a.UpdatedAt),
	}

	if _, err := q.CreateAccount(ctx, params); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountExists
		}
		return fmt.Errorf("insert account %s: %w", a.ID, err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, domain.ErrAccountNotFound
	case err != nil:
		return nil, err
	}
	return accountFromRow(row), nil
}

// GetByIDsForUpdate locks the given accounts in ID order so that an entry
// fee and a payout touching the same escrow cannot deadlock.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := txQueries(tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	return accountsFromRows(rows), nil
}

// UpdateBalance stores the new balance and bumps the version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	err := txQueries(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return fmt.Errorf("update balance of %s: %w", id, err)
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}
	return accountsFromRows(rows), nil
}

func accountsFromRows(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = accountFromRow(row)
	}
	return accounts
}

func accountFromRow(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:                   row.ID,
		Currency:             row.Currency,
		Balance:              numericToDecimal(row.Balance),
		Version:              row.Version,
		AllowNegativeBalance: row.AllowNegativeBalance,
		AllowPositiveBalance: row.AllowPositiveBalance,
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}
