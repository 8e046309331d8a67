package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
)

// RaffleRepository defines data access for raffles.
type RaffleRepository interface {
	Create(ctx context.Context, tx Transaction, raffle *domain.Raffle) error
	GetByID(ctx context.Context, id string) (*domain.Raffle, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Raffle, error)
	UpdateEntries(ctx context.Context, tx Transaction, id string, currentEntries int64, escrowedFunds decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.RaffleStatus, updatedAt time.Time) error
	// SetWinner persists the draw outcome. It must only succeed while no
	// winner is recorded and returns domain.ErrAlreadyDrawn otherwise.
	SetWinner(ctx context.Context, tx Transaction, raffle *domain.Raffle) error
	MarkClaimed(ctx context.Context, tx Transaction, id string, claimedAt time.Time) error
	List(ctx context.Context, status domain.RaffleStatus, limit, offset int) ([]*domain.Raffle, error)
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*domain.Raffle, error)
}

// EntryRepository defines data access for the per-raffle entry ledger.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// GetByIndex returns the entry whose range starts at the greatest
	// start index not above index.
	GetByIndex(ctx context.Context, tx Transaction, raffleID string, index int64) (*domain.Entry, error)
	ListByRaffle(ctx context.Context, raffleID string, limit, offset int) ([]*domain.Entry, error)
}

// AccountRepository defines data access for token accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// PostingRepository defines data access for postings.
type PostingRepository interface {
	Create(ctx context.Context, tx Transaction, posting *domain.Posting) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Posting, error)
}

// AssetRepository defines data access for prize assets.
type AssetRepository interface {
	Create(ctx context.Context, tx Transaction, asset *domain.PrizeAsset) error
	GetByID(ctx context.Context, id string) (*domain.PrizeAsset, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.PrizeAsset, error)
	UpdateOwner(ctx context.Context, tx Transaction, id, owner string, updatedAt time.Time) error
	ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (totalBalance, totalPostings decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
	CountUnpublished(ctx context.Context) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations. Get returns ErrCacheMiss for absent keys.
//
// Every Delete advances the key's generation. Fill only stores a value if the
// generation still matches the one read before the value was loaded, so a
// slow reader cannot put back a row that a committed transition replaced.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Generation(ctx context.Context, key string) (int64, error)
	Fill(ctx context.Context, key string, generation int64, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so the request can be retried.
	Release(ctx context.Context, key string) error
}
