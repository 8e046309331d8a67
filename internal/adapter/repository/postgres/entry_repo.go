package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/postgres/generated"
	"github.com/iho/goraffle/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return newEntryRepository(pool)
}

func newEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{queries: generated.New(db)}
}

// Create appends an entry range to a raffle's ledger. A second range at the
// same start index means the ledger is no longer contiguous.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	err := txQueries(tx).CreateRaffleEntry(ctx, generated.CreateRaffleEntryParams{
		RaffleID:   entry.RaffleID,
		StartIndex: entry.StartIndex,
		Entrant:    entry.Entrant,
		Count:      entry.Count,
		CreatedAt:  timeToPgTimestamptz(entry.CreatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrEntryLedgerCorrupt
	}

	return err
}

// GetByIndex returns the range with the greatest start index not above
// index. tx may be nil for reads outside a transaction.
func (r *EntryRepository) GetByIndex(ctx context.Context, tx usecase.Transaction, raffleID string, index int64) (*domain.Entry, error) {
	queries := r.queries
	if tx != nil {
		queries = txQueries(tx)
	}

	row, err := queries.GetRaffleEntryByIndex(ctx, generated.GetRaffleEntryByIndexParams{
		RaffleID:   raffleID,
		StartIndex: index,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// ListByRaffle lists entry ranges in index order.
func (r *EntryRepository) ListByRaffle(ctx context.Context, raffleID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.ListRaffleEntries(ctx, generated.ListRaffleEntriesParams{
		RaffleID: raffleID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

func rowToEntry(row generated.RaffleEntry) *domain.Entry {
	return &domain.Entry{
		RaffleID:   row.RaffleID,
		StartIndex: row.StartIndex,
		Entrant:    row.Entrant,
		Count:      row.Count,
		CreatedAt:  row.CreatedAt.Time,
	}
}
