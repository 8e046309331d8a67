package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// Transition names used for metrics.
const (
	transitionInitialize = "initialize"
	transitionEnter      = "enter"
	transitionClose      = "close"
	transitionDraw       = "draw"
	transitionClaim      = "claim"
)

// RaffleUseCase runs the raffle state machine. Every transition executes in a
// single database transaction with the raffle row locked, and issues its
// token and asset movements inside that same transaction.
type RaffleUseCase struct {
	txManager  TransactionManager
	raffleRepo RaffleRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	tokens     *TokenLedger
	custody    *AssetCustody
	entropy    EntropySource
	idGen      IDGenerator
	clock      Clock
	currency   string

	retrier  Retrier
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewRaffleUseCase creates a new RaffleUseCase. currency is the token symbol
// entries are paid in.
func NewRaffleUseCase(
	txManager TransactionManager,
	raffleRepo RaffleRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	tokens *TokenLedger,
	custody *AssetCustody,
	entropy EntropySource,
	idGen IDGenerator,
	clock Clock,
	currency string,
) *RaffleUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &RaffleUseCase{
		txManager:  txManager,
		raffleRepo: raffleRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		tokens:     tokens,
		custody:    custody,
		entropy:    entropy,
		idGen:      idGen,
		clock:      clock,
		currency:   currency,
		cacheTTL:   DefaultRaffleCacheTTL,
	}
}

// WithRetrier retries whole transitions on deadlocks and serialization failures.
func (uc *RaffleUseCase) WithRetrier(r Retrier) *RaffleUseCase {
	uc.retrier = r
	return uc
}

// WithCache enables the read-through raffle cache.
func (uc *RaffleUseCase) WithCache(c Cache, ttl time.Duration) *RaffleUseCase {
	uc.cache = c
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
	return uc
}

// WithMetrics enables transition metrics.
func (uc *RaffleUseCase) WithMetrics(m *metrics.Metrics) *RaffleUseCase {
	uc.metrics = m
	return uc
}

// InitializeRaffleInput represents input for opening a raffle.
type InitializeRaffleInput struct {
	EndTimestamp time.Time
	Caller       string
	PrizeAssetID string
	EntryPrice   decimal.Decimal
	MaxEntries   int64
}

// InitializeRaffle opens a raffle and moves the prize into escrow.
func (uc *RaffleUseCase) InitializeRaffle(ctx context.Context, input InitializeRaffleInput) (*domain.Raffle, error) {
	start := time.Now()

	if err := domain.ValidateIdentity(input.Caller); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	id := uc.idGen.Generate()

	raffle := &domain.Raffle{
		ID:              id,
		Authority:       input.Caller,
		PrizeAssetID:    input.PrizeAssetID,
		EscrowAccountID: domain.EscrowAccountID(id),
		Status:          domain.RaffleStatusActive,
		EntryPrice:      input.EntryPrice,
		EscrowedFunds:   decimal.Zero,
		MaxEntries:      input.MaxEntries,
		EndTimestamp:    input.EndTimestamp.UTC(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := raffle.Validate(now); err != nil {
		uc.observe(transitionInitialize, start, err)
		return nil, err
	}

	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		// The authority must be able to receive the fees at claim time.
		if _, err := uc.tokens.RequireAccounts(txCtx, tx, raffle.Authority); err != nil {
			return transferFailed(err)
		}

		if err := uc.raffleRepo.Create(txCtx, tx, raffle); err != nil {
			return err
		}

		escrow := domain.NewEscrowAccount(raffle.ID, uc.currency, now)
		if err := uc.tokens.OpenAccount(txCtx, tx, escrow); err != nil {
			return err
		}

		if err := uc.custody.Transfer(txCtx, tx, raffle.Authority, raffle.EscrowAccountID, raffle.PrizeAssetID, now); err != nil {
			return transferFailed(err)
		}

		event := domain.NewRaffleEvent(uc.idGen.Generate(), raffle, domain.EventTypeRaffleInitialized, map[string]any{
			"authority":      raffle.Authority,
			"prize_asset_id": raffle.PrizeAssetID,
			"entry_price":    raffle.EntryPrice.String(),
			"max_entries":    raffle.MaxEntries,
			"end_timestamp":  raffle.EndTimestamp.Format(time.RFC3339),
		}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	})

	uc.observe(transitionInitialize, start, err)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RafflesInitialized.Inc()
	}

	return raffle, nil
}

// EnterRaffleInput represents input for buying entries.
type EnterRaffleInput struct {
	Caller     string
	RaffleID   string
	NumEntries int64
}

// EnterRaffleResult is the outcome of a successful entry purchase.
type EnterRaffleResult struct {
	Raffle   *domain.Raffle
	Entry    *domain.Entry
	Transfer *domain.Transfer
}

// EnterRaffle buys NumEntries entries for the caller.
func (uc *RaffleUseCase) EnterRaffle(ctx context.Context, input EnterRaffleInput) (*EnterRaffleResult, error) {
	start := time.Now()

	if input.NumEntries <= 0 {
		uc.observe(transitionEnter, start, domain.ErrInvalidEntryAmount)
		return nil, domain.ErrInvalidEntryAmount
	}

	if err := domain.ValidateIdentity(input.Caller); err != nil {
		return nil, err
	}

	var result *EnterRaffleResult

	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		raffle, err := uc.raffleRepo.GetByIDForUpdate(txCtx, tx, input.RaffleID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := raffle.CheckEnter(now, input.NumEntries); err != nil {
			return err
		}

		cost := raffle.Cost(input.NumEntries)
		transfer, err := uc.tokens.Transfer(txCtx, tx, input.Caller, raffle.EscrowAccountID, cost, map[string]any{
			"raffle_id": raffle.ID,
			"reason":    "entry",
		}, now)
		if err != nil {
			return transferFailed(err)
		}

		entry := raffle.ApplyEnter(input.Caller, input.NumEntries, now)

		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return err
		}

		if err := uc.raffleRepo.UpdateEntries(txCtx, tx, raffle.ID, raffle.CurrentEntries, raffle.EscrowedFunds, now); err != nil {
			return err
		}

		event := domain.NewRaffleEvent(uc.idGen.Generate(), raffle, domain.EventTypeRaffleEntered, map[string]any{
			"entrant":     entry.Entrant,
			"start_index": entry.StartIndex,
			"count":       entry.Count,
			"amount":      cost.String(),
		}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		result = &EnterRaffleResult{Raffle: raffle, Entry: entry, Transfer: transfer}
		return nil
	})

	uc.observe(transitionEnter, start, err)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.RaffleID)

	if uc.metrics != nil {
		uc.metrics.EntriesSold.Add(float64(input.NumEntries))
		uc.metrics.FeesCollected.Add(result.Transfer.Amount.InexactFloat64())
	}

	return result, nil
}

// CloseRaffle moves an expired raffle from active to ended. Anyone may call
// it; a raffle already past active is returned unchanged.
func (uc *RaffleUseCase) CloseRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	start := time.Now()

	var (
		result *domain.Raffle
		closed bool
	)

	err := uc.withRetry(ctx, func() error {
		closed = false

		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		raffle, err := uc.raffleRepo.GetByIDForUpdate(txCtx, tx, raffleID)
		if err != nil {
			return err
		}

		result = raffle
		if raffle.Status != domain.RaffleStatusActive {
			return nil
		}

		now := uc.clock.Now()
		if err := raffle.CheckClose(now); err != nil {
			return err
		}

		raffle.Status = domain.RaffleStatusEnded
		raffle.UpdatedAt = now

		if err := uc.raffleRepo.UpdateStatus(txCtx, tx, raffle.ID, raffle.Status, now); err != nil {
			return err
		}

		event := domain.NewRaffleEvent(uc.idGen.Generate(), raffle, domain.EventTypeRaffleClosed, nil, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		closed = true
		return nil
	})

	uc.observe(transitionClose, start, err)
	if err != nil {
		return nil, err
	}

	if closed {
		uc.invalidate(ctx, raffleID)
		if uc.metrics != nil {
			uc.metrics.RafflesClosed.Inc()
		}
	}

	return result, nil
}

// SweepExpired closes up to limit active raffles whose deadline has passed
// and returns how many were examined.
func (uc *RaffleUseCase) SweepExpired(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultSweepBatchSize
	}

	raffles, err := uc.raffleRepo.ListExpiredActive(ctx, uc.clock.Now(), limit)
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, r := range raffles {
		if _, err := uc.CloseRaffle(ctx, r.ID); err != nil {
			errs = append(errs, err)
		}
	}

	return len(raffles), errors.Join(errs...)
}

// DrawWinnerInput represents input for drawing a winner.
type DrawWinnerInput struct {
	Caller   string
	RaffleID string
}

// DrawWinner selects the winner from entropy bound to the first block at or
// after the raffle deadline.
func (uc *RaffleUseCase) DrawWinner(ctx context.Context, input DrawWinnerInput) (*domain.Raffle, error) {
	start := time.Now()

	// Entropy depends only on immutable fields, so it is fetched before the
	// row lock is taken. Every check is repeated under the lock.
	snapshot, err := uc.raffleRepo.GetByID(ctx, input.RaffleID)
	if err != nil {
		uc.observe(transitionDraw, start, err)
		return nil, err
	}

	if err := snapshot.CheckDraw(input.Caller, uc.clock.Now()); err != nil {
		uc.observe(transitionDraw, start, err)
		return nil, err
	}

	entropy, err := uc.entropy.Entropy(ctx, snapshot.ID, snapshot.EndTimestamp)
	if err != nil {
		uc.observe(transitionDraw, start, err)
		return nil, err
	}

	var result *domain.Raffle

	err = uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		raffle, err := uc.raffleRepo.GetByIDForUpdate(txCtx, tx, input.RaffleID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := raffle.CheckDraw(input.Caller, now); err != nil {
			return err
		}

		index, err := entropy.Seed.WinningIndex(raffle.CurrentEntries)
		if err != nil {
			return err
		}

		entry, err := uc.entryRepo.GetByIndex(txCtx, tx, raffle.ID, index)
		if err != nil {
			if errors.Is(err, domain.ErrEntryNotFound) {
				return domain.ErrEntryLedgerCorrupt
			}
			return err
		}
		if !entry.Contains(index) {
			return domain.ErrEntryLedgerCorrupt
		}

		raffle.ApplyDraw(entry.Entrant, index, entropy, now)

		if err := uc.raffleRepo.SetWinner(txCtx, tx, raffle); err != nil {
			return err
		}

		event := domain.NewRaffleEvent(uc.idGen.Generate(), raffle, domain.EventTypeWinnerDrawn, map[string]any{
			"winner":        entry.Entrant,
			"winning_index": index,
			"seed":          raffle.DrawSeed,
			"block_number":  entropy.BlockNumber,
			"block_hash":    entropy.BlockHash,
		}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		result = raffle
		return nil
	})

	uc.observe(transitionDraw, start, err)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.RaffleID)

	if uc.metrics != nil {
		uc.metrics.WinnersDrawn.Inc()
	}

	return result, nil
}

// ClaimPrizeInput represents input for claiming a prize.
type ClaimPrizeInput struct {
	Caller   string
	RaffleID string
}

// ClaimPrize releases the prize to the winner and the collected fees to the
// authority in one atomic step.
func (uc *RaffleUseCase) ClaimPrize(ctx context.Context, input ClaimPrizeInput) (*domain.Raffle, error) {
	start := time.Now()

	var result *domain.Raffle

	err := uc.withRetry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		raffle, err := uc.raffleRepo.GetByIDForUpdate(txCtx, tx, input.RaffleID)
		if err != nil {
			return err
		}

		if err := raffle.CheckClaim(input.Caller); err != nil {
			return err
		}

		now := uc.clock.Now()
		payout := raffle.EscrowedFunds

		if err := uc.custody.Transfer(txCtx, tx, raffle.EscrowAccountID, input.Caller, raffle.PrizeAssetID, now); err != nil {
			return transferFailed(err)
		}

		if payout.IsPositive() {
			_, err := uc.tokens.Transfer(txCtx, tx, raffle.EscrowAccountID, raffle.Authority, payout, map[string]any{
				"raffle_id": raffle.ID,
				"reason":    "payout",
			}, now)
			if err != nil {
				return transferFailed(err)
			}
		}

		raffle.ApplyClaim(now)

		if err := uc.raffleRepo.MarkClaimed(txCtx, tx, raffle.ID, now); err != nil {
			return err
		}

		event := domain.NewRaffleEvent(uc.idGen.Generate(), raffle, domain.EventTypePrizeClaimed, map[string]any{
			"winner":         input.Caller,
			"authority":      raffle.Authority,
			"prize_asset_id": raffle.PrizeAssetID,
			"payout":         payout.String(),
		}, now)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		result = raffle
		return nil
	})

	uc.observe(transitionClaim, start, err)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.RaffleID)

	if uc.metrics != nil {
		uc.metrics.PrizesClaimed.Inc()
	}

	return result, nil
}

// GetRaffle retrieves a raffle by ID, served from cache when possible.
func (uc *RaffleUseCase) GetRaffle(ctx context.Context, id string) (*domain.Raffle, error) {
	if uc.cache == nil {
		return uc.raffleRepo.GetByID(ctx, id)
	}

	key := raffleCacheKey(id)
	if data, err := uc.cache.Get(ctx, key); err == nil {
		var raffle domain.Raffle
		if err := json.Unmarshal(data, &raffle); err == nil {
			uc.cacheResult("hit")
			return &raffle, nil
		}
	}
	uc.cacheResult("miss")

	// read before the row: a transition committing in between bumps it
	generation, genErr := uc.cache.Generation(ctx, key)

	raffle, err := uc.raffleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		if data, err := json.Marshal(raffle); err == nil {
			if stored, err := uc.cache.Fill(ctx, key, generation, data, uc.cacheTTL); err == nil && !stored {
				uc.cacheResult("stale")
			}
		}
	}

	return raffle, nil
}

// ListRafflesInput represents input for listing raffles. An empty status
// lists raffles in every state.
type ListRafflesInput struct {
	Status domain.RaffleStatus
	Limit  int
	Offset int
}

// ListRaffles lists raffles with pagination.
func (uc *RaffleUseCase) ListRaffles(ctx context.Context, input ListRafflesInput) ([]*domain.Raffle, error) {
	if input.Status != "" && !input.Status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.raffleRepo.List(ctx, input.Status, limit, offset)
}

// ListEntriesInput represents input for listing a raffle's entries.
type ListEntriesInput struct {
	RaffleID string
	Limit    int
	Offset   int
}

// ListEntries lists the entry ledger of a raffle ordered by start index.
func (uc *RaffleUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	if _, err := uc.raffleRepo.GetByID(ctx, input.RaffleID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.entryRepo.ListByRaffle(ctx, input.RaffleID, limit, offset)
}

// ListEventsInput represents input for reading a raffle's event history.
type ListEventsInput struct {
	RaffleID string
	Limit    int
	Offset   int
}

// ListEvents returns the transitions recorded for a raffle, oldest first,
// whether or not the relay has delivered them yet.
func (uc *RaffleUseCase) ListEvents(ctx context.Context, input ListEventsInput) ([]*domain.OutboxEvent, error) {
	if _, err := uc.raffleRepo.GetByID(ctx, input.RaffleID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.outboxRepo.GetByAggregate(ctx, domain.AggregateTypeRaffle, input.RaffleID, limit, offset)
}

func (uc *RaffleUseCase) withRetry(ctx context.Context, op func() error) error {
	if uc.retrier == nil {
		return op()
	}
	return uc.retrier.Retry(ctx, op)
}

func (uc *RaffleUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Delete(ctx, raffleCacheKey(id))
}

func (uc *RaffleUseCase) observe(transition string, start time.Time, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.TransitionDuration.WithLabelValues(transition).Observe(time.Since(start).Seconds())
	if err != nil {
		uc.metrics.TransitionErrors.WithLabelValues(transition, errorLabel(err)).Inc()
	}
}

func (uc *RaffleUseCase) cacheResult(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

func raffleCacheKey(id string) string {
	return "raffle:" + id
}
