package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/postgres/generated"
	"github.com/iho/goraffle/internal/usecase"
)

// RaffleRepository implements usecase.RaffleRepository.
type RaffleRepository struct {
	queries *generated.Queries
}

// NewRaffleRepository creates a new RaffleRepository.
func NewRaffleRepository(pool *pgxpool.Pool) *RaffleRepository {
	return newRaffleRepository(pool)
}

func newRaffleRepository(db generated.DBTX) *RaffleRepository {
	return &RaffleRepository{queries: generated.New(db)}
}

// Create inserts a freshly initialized raffle.
func (r *RaffleRepository) Create(ctx context.Context, tx usecase.Transaction, raffle *domain.Raffle) error {
	return txQueries(tx).CreateRaffle(ctx, generated.CreateRaffleParams{
		ID:              raffle.ID,
		Authority:       raffle.Authority,
		PrizeAssetID:    raffle.PrizeAssetID,
		EscrowAccountID: raffle.EscrowAccountID,
		Status:          string(raffle.Status),
		EntryPrice:      decimalToNumeric(raffle.EntryPrice),
		MaxEntries:      raffle.MaxEntries,
		CurrentEntries:  raffle.CurrentEntries,
		EscrowedFunds:   decimalToNumeric(raffle.EscrowedFunds),
		EndTimestamp:    timeToPgTimestamptz(raffle.EndTimestamp),
		Version:         raffle.Version,
		CreatedAt:       timeToPgTimestamptz(raffle.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(raffle.UpdatedAt),
	})
}

// GetByID retrieves a raffle by ID.
func (r *RaffleRepository) GetByID(ctx context.Context, id string) (*domain.Raffle, error) {
	row, err := r.queries.GetRaffleByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRaffleNotFound
		}

		return nil, err
	}

	return rowToRaffle(row), nil
}

// GetByIDForUpdate retrieves a raffle by ID with a FOR UPDATE lock. Every
// transition on a raffle serializes on this lock.
func (r *RaffleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Raffle, error) {
	row, err := txQueries(tx).GetRaffleByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRaffleNotFound
		}

		return nil, err
	}

	return rowToRaffle(row), nil
}

// UpdateEntries records a purchase on the raffle counters.
func (r *RaffleRepository) UpdateEntries(
	ctx context.Context,
	tx usecase.Transaction,
	id string,
	currentEntries int64,
	escrowedFunds decimal.Decimal,
	updatedAt time.Time,
) error {
	return txQueries(tx).UpdateRaffleEntries(ctx, generated.UpdateRaffleEntriesParams{
		ID:             id,
		CurrentEntries: currentEntries,
		EscrowedFunds:  decimalToNumeric(escrowedFunds),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
}

// UpdateStatus sets the raffle status.
func (r *RaffleRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.RaffleStatus, updatedAt time.Time) error {
	return txQueries(tx).UpdateRaffleStatus(ctx, generated.UpdateRaffleStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// SetWinner persists the draw outcome. The update only matches while no
// winner is recorded.
func (r *RaffleRepository) SetWinner(ctx context.Context, tx usecase.Transaction, raffle *domain.Raffle) error {
	if raffle.Winner == nil || raffle.WinningIndex == nil || raffle.DrawnAt == nil {
		return domain.ErrDrawNotComplete
	}

	var blockNumber pgtype.Int8
	if raffle.DrawBlockNumber != nil {
		blockNumber = pgtype.Int8{Int64: int64(*raffle.DrawBlockNumber), Valid: true}
	}

	n, err := txQueries(tx).SetRaffleWinner(ctx, generated.SetRaffleWinnerParams{
		ID:              raffle.ID,
		Status:          string(raffle.Status),
		Winner:          pgtype.Text{String: *raffle.Winner, Valid: true},
		WinningIndex:    pgtype.Int8{Int64: *raffle.WinningIndex, Valid: true},
		DrawSeed:        pgtype.Text{String: raffle.DrawSeed, Valid: raffle.DrawSeed != ""},
		DrawBlockNumber: blockNumber,
		DrawBlockHash:   pgtype.Text{String: raffle.DrawBlockHash, Valid: raffle.DrawBlockHash != ""},
		DrawnAt:         timeToPgTimestamptz(*raffle.DrawnAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadyDrawn
	}

	return nil
}

// MarkClaimed moves a drawn raffle to claimed and zeroes its escrow.
func (r *RaffleRepository) MarkClaimed(ctx context.Context, tx usecase.Transaction, id string, claimedAt time.Time) error {
	n, err := txQueries(tx).MarkRaffleClaimed(ctx, generated.MarkRaffleClaimedParams{
		ID:        id,
		ClaimedAt: timeToPgTimestamptz(claimedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPrizeAlreadyClaimed
	}

	return nil
}

// List lists raffles, newest first. An empty status matches every raffle.
func (r *RaffleRepository) List(ctx context.Context, status domain.RaffleStatus, limit, offset int) ([]*domain.Raffle, error) {
	rows, err := r.queries.ListRaffles(ctx, generated.ListRafflesParams{
		Status: string(status),
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToRaffles(rows), nil
}

// ListExpiredActive lists active raffles whose deadline is at or before now,
// oldest deadline first.
func (r *RaffleRepository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*domain.Raffle, error) {
	rows, err := r.queries.ListExpiredActiveRaffles(ctx, generated.ListExpiredActiveRafflesParams{
		EndTimestamp: timeToPgTimestamptz(now),
		Limit:        int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToRaffles(rows), nil
}

func rowsToRaffles(rows []generated.Raffle) []*domain.Raffle {
	raffles := make([]*domain.Raffle, 0, len(rows))
	for _, row := range rows {
		raffles = append(raffles, rowToRaffle(row))
	}
	return raffles
}

func rowToRaffle(row generated.Raffle) *domain.Raffle {
	raffle := &domain.Raffle{
		ID:              row.ID,
		Authority:       row.Authority,
		PrizeAssetID:    row.PrizeAssetID,
		EscrowAccountID: row.EscrowAccountID,
		Status:          domain.RaffleStatus(row.Status),
		EntryPrice:      numericToDecimal(row.EntryPrice),
		MaxEntries:      row.MaxEntries,
		CurrentEntries:  row.CurrentEntries,
		EscrowedFunds:   numericToDecimal(row.EscrowedFunds),
		EndTimestamp:    row.EndTimestamp.Time,
		Winner:          optionalText(row.Winner),
		WinningIndex:    optionalInt8(row.WinningIndex),
		DrawSeed:        textOrEmpty(row.DrawSeed),
		DrawBlockHash:   textOrEmpty(row.DrawBlockHash),
		DrawnAt:         optionalTime(row.DrawnAt),
		ClaimedAt:       optionalTime(row.ClaimedAt),
		Version:         row.Version,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}

	if row.DrawBlockNumber.Valid {
		n := uint64(row.DrawBlockNumber.Int64)
		raffle.DrawBlockNumber = &n
	}

	return raffle
}
