package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/postgres/generated"
	"github.com/iho/goraffle/internal/usecase"
)

// TransferRepository records token movements: mints, entry fees paid into a
// raffle escrow and payouts out of it. Rows are immutable once written.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return newTransferRepository(pool)
}

func newTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Create writes the transfer inside tx. It must share the transaction that
// posts the matching debit and credit.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	var metadata []byte
	if len(transfer.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(transfer.Metadata); err != nil {
			return fmt.Errorf("encode metadata of transfer %s: %w", transfer.ID, err)
		}
	}

	_, err := txQueries(tx).CreateTransfer(ctx, generated.CreateTransferParams{
		ID:            transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        decimalToNumeric(transfer.Amount),
		Metadata:      metadata,
		CreatedAt:     timeToPgTimestamptz(transfer.CreatedAt),
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("transfer %s already recorded: %w", transfer.ID, err)
	}
	return err
}

// ListByAccount pages through transfers in either direction, newest first.
// Reconciliation uses it to replay an escrow account.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfersByAccount(ctx, generated.ListTransfersByAccountParams{
		FromAccountID: accountID,
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, len(rows))
	for i, row := range rows {
		t := &domain.Transfer{
			ID:            row.ID,
			FromAccountID: row.FromAccountID,
			ToAccountID:   row.ToAccountID,
			Amount:        numericToDecimal(row.Amount),
			CreatedAt:     row.CreatedAt.Time,
		}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &t.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata of transfer %s: %w", row.ID, err)
			}
		}
		transfers[i] = t
	}

	return transfers, nil
}
