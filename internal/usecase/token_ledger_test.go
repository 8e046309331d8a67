package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
	"github.com/iho/goraffle/internal/usecase/mocks"
)

func TestTokenLedger_Transfer(t *testing.T) {
	tests := []struct {
		name     string
		accounts []*domain.Account
		from     string
		to       string
		amount   int64
		wantErr  error
	}{
		{
			name: "moves funds",
			accounts: []*domain.Account{
				{ID: "a", Currency: "DRAGON", Balance: decimal.NewFromInt(100), AllowPositiveBalance: true},
				{ID: "b", Currency: "DRAGON", AllowPositiveBalance: true},
			},
			from: "a", to: "b", amount: 40,
		},
		{
			name: "insufficient balance",
			accounts: []*domain.Account{
				{ID: "a", Currency: "DRAGON", Balance: decimal.NewFromInt(10), AllowPositiveBalance: true},
				{ID: "b", Currency: "DRAGON", AllowPositiveBalance: true},
			},
			from: "a", to: "b", amount: 40,
			wantErr: domain.ErrNegativeBalanceNotAllowed,
		},
		{
			name: "currency mismatch",
			accounts: []*domain.Account{
				{ID: "a", Currency: "DRAGON", Balance: decimal.NewFromInt(100), AllowPositiveBalance: true},
				{ID: "b", Currency: "GOLD", AllowPositiveBalance: true},
			},
			from: "a", to: "b", amount: 40,
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "missing destination",
			accounts: []*domain.Account{
				{ID: "a", Currency: "DRAGON", Balance: decimal.NewFromInt(100), AllowPositiveBalance: true},
			},
			from: "a", to: "b", amount: 40,
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "same account",
			accounts: []*domain.Account{
				{ID: "a", Currency: "DRAGON", Balance: decimal.NewFromInt(100), AllowPositiveBalance: true},
			},
			from: "a", to: "a", amount: 1,
			wantErr: domain.ErrSameAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			accounts := mocks.NewMockAccountRepository()
			for _, a := range tt.accounts {
				require.NoError(t, accounts.Create(ctx, a))
			}
			postings := mocks.NewMockPostingRepository()
			ledger := usecase.NewTokenLedger(accounts, mocks.NewMockTransferRepository(), postings, mocks.NewMockIDGenerator())

			_, err := ledger.Transfer(ctx, &mocks.MockTransaction{}, tt.from, tt.to, decimal.NewFromInt(tt.amount), nil, time.Now())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			from, _ := accounts.GetByID(ctx, tt.from)
			to, _ := accounts.GetByID(ctx, tt.to)
			assert.True(t, from.Balance.Equal(decimal.NewFromInt(60)))
			assert.True(t, to.Balance.Equal(decimal.NewFromInt(40)))
			assert.Equal(t, int64(1), to.Version)

			history, err := postings.ListByAccount(ctx, tt.from, 10, 0)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.True(t, history[0].Amount.Equal(decimal.NewFromInt(-40)))
		})
	}
}

func TestTokenLedger_LocksInSortedOrder(t *testing.T) {
	ctx := context.Background()
	accounts := mocks.NewMockAccountRepository()
	require.NoError(t, accounts.Create(ctx, &domain.Account{ID: "zed", Currency: "DRAGON", Balance: decimal.NewFromInt(5), AllowPositiveBalance: true}))
	require.NoError(t, accounts.Create(ctx, &domain.Account{ID: "amy", Currency: "DRAGON", AllowPositiveBalance: true}))

	var locked []string
	accounts.GetByIDsForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
		locked = ids
		accounts.GetByIDsForUpdateFunc = nil
		return accounts.GetByIDsForUpdate(ctx, tx, ids)
	}

	ledger := usecase.NewTokenLedger(accounts, mocks.NewMockTransferRepository(), mocks.NewMockPostingRepository(), mocks.NewMockIDGenerator())
	_, err := ledger.Transfer(ctx, &mocks.MockTransaction{}, "zed", "amy", decimal.NewFromInt(5), nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"amy", "zed"}, locked)
}
