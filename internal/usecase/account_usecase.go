package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// AccountUseCase handles token account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	postingRepo PostingRepository
	outboxRepo  OutboxRepository
	tokens      *TokenLedger
	idGen       IDGenerator
	clock       Clock
	currency    string
	issuerID    string
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. issuerID names the account
// minted tokens are drawn from; it is the only account allowed to go negative.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	postingRepo PostingRepository,
	outboxRepo OutboxRepository,
	tokens *TokenLedger,
	idGen IDGenerator,
	clock Clock,
	currency, issuerID string,
	m *metrics.Metrics,
) *AccountUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		postingRepo: postingRepo,
		outboxRepo:  outboxRepo,
		tokens:      tokens,
		idGen:       idGen,
		clock:       clock,
		currency:    currency,
		issuerID:    issuerID,
		metrics:     m,
	}
}

// EnsureIssuer creates the issuer account if it does not exist yet.
func (uc *AccountUseCase) EnsureIssuer(ctx context.Context) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, uc.issuerID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	account = domain.NewIssuerAccount(uc.issuerID, uc.currency, uc.clock.Now())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return uc.accountRepo.GetByID(ctx, uc.issuerID)
		}
		return nil, err
	}

	return account, nil
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Owner string
}

// CreateAccount opens a token account for an identity.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateIdentity(input.Owner); err != nil {
		return nil, err
	}
	if input.Owner == uc.issuerID {
		return nil, domain.ErrAccountExists
	}

	account := domain.NewWalletAccount(input.Owner, uc.currency, uc.clock.Now())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// ListPostingsInput represents input for listing account history.
type ListPostingsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListPostings lists the postings of an account, newest first.
func (uc *AccountUseCase) ListPostings(ctx context.Context, input ListPostingsInput) ([]*domain.Posting, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.postingRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// MintInput represents input for minting tokens.
type MintInput struct {
	AccountID string
	Amount    decimal.Decimal
}

// Mint credits an account with freshly issued tokens.
func (uc *AccountUseCase) Mint(ctx context.Context, input MintInput) (*domain.Transfer, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.AccountID == uc.issuerID {
		return nil, domain.ErrSameAccount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := uc.clock.Now()

	transfer, err := uc.tokens.Transfer(txCtx, tx, uc.issuerID, input.AccountID, input.Amount, map[string]any{
		"reason": "mint",
	}, now)
	if err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   input.AccountID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeTokensMinted,
		Payload: map[string]any{
			"account_id":  input.AccountID,
			"transfer_id": transfer.ID,
			"amount":      input.Amount.String(),
			"currency":    uc.currency,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TokensMinted.Add(input.Amount.InexactFloat64())
		uc.metrics.TransfersCreated.Inc()
	}

	return transfer, nil
}
