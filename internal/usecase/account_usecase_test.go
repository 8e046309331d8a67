package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
	"github.com/iho/goraffle/internal/usecase/mocks"
)

func newAccountUseCase() (*usecase.AccountUseCase, *mocks.MockAccountRepository, *mocks.MockOutboxRepository) {
	accounts := mocks.NewMockAccountRepository()
	outbox := mocks.NewMockOutboxRepository()
	postings := mocks.NewMockPostingRepository()
	idGen := mocks.NewMockIDGenerator()
	tokens := usecase.NewTokenLedger(accounts, mocks.NewMockTransferRepository(), postings, idGen)

	uc := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(), accounts, postings, outbox, tokens, idGen, nil, "DRAGON", "issuer", nil,
	)
	return uc, accounts, outbox
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	uc, _, _ := newAccountUseCase()
	ctx := context.Background()

	acc, err := uc.CreateAccount(ctx, usecase.CreateAccountInput{Owner: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.ID)
	assert.Equal(t, "DRAGON", acc.Currency)
	assert.False(t, acc.AllowNegativeBalance)

	_, err = uc.CreateAccount(ctx, usecase.CreateAccountInput{Owner: "alice"})
	require.ErrorIs(t, err, domain.ErrAccountExists)

	_, err = uc.CreateAccount(ctx, usecase.CreateAccountInput{Owner: "raffle:x:escrow"})
	require.ErrorIs(t, err, domain.ErrInvalidIdentity)

	_, err = uc.CreateAccount(ctx, usecase.CreateAccountInput{Owner: ""})
	require.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestAccountUseCase_Mint(t *testing.T) {
	uc, accounts, outbox := newAccountUseCase()
	ctx := context.Background()

	issuer, err := uc.EnsureIssuer(ctx)
	require.NoError(t, err)
	assert.True(t, issuer.AllowNegativeBalance)

	// idempotent
	_, err = uc.EnsureIssuer(ctx)
	require.NoError(t, err)

	_, err = uc.CreateAccount(ctx, usecase.CreateAccountInput{Owner: "alice"})
	require.NoError(t, err)

	transfer, err := uc.Mint(ctx, usecase.MintInput{AccountID: "alice", Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.Equal(t, "issuer", transfer.FromAccountID)

	alice, err := accounts.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(250)))

	issuer, err = accounts.GetByID(ctx, "issuer")
	require.NoError(t, err)
	assert.True(t, issuer.Balance.Equal(decimal.NewFromInt(-250)))

	assert.Equal(t, []string{domain.EventTypeTokensMinted}, outbox.EventTypes())

	postings, err := uc.ListPostings(ctx, usecase.ListPostingsInput{AccountID: "alice"})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.True(t, postings[0].AccountCurrentBalance.Equal(decimal.NewFromInt(250)))

	_, err = uc.Mint(ctx, usecase.MintInput{AccountID: "alice", Amount: decimal.Zero})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.Mint(ctx, usecase.MintInput{AccountID: "bob", Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
