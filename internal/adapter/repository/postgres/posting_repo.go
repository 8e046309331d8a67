package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/postgres/generated"
	"github.com/iho/goraffle/internal/usecase"
)

// PostingRepository implements usecase.PostingRepository.
type PostingRepository struct {
	queries *generated.Queries
}

// NewPostingRepository creates a new PostingRepository.
func NewPostingRepository(pool *pgxpool.Pool) *PostingRepository {
	return newPostingRepository(pool)
}

func newPostingRepository(db generated.DBTX) *PostingRepository {
	return &PostingRepository{queries: generated.New(db)}
}

// Create creates a new posting.
func (r *PostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	return txQueries(tx).CreatePosting(ctx, generated.CreatePostingParams{
		ID:                     posting.ID,
		AccountID:              posting.AccountID,
		TransferID:             posting.TransferID,
		Amount:                 decimalToNumeric(posting.Amount),
		AccountPreviousBalance: decimalToNumeric(posting.AccountPreviousBalance),
		AccountCurrentBalance:  decimalToNumeric(posting.AccountCurrentBalance),
		AccountVersion:         posting.AccountVersion,
		CreatedAt:              timeToPgTimestamptz(posting.CreatedAt),
	})
}

// ListByAccount lists the postings of an account, newest version first.
func (r *PostingRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Posting, error) {
	rows, err := r.queries.ListPostingsByAccount(ctx, generated.ListPostingsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	postings := make([]*domain.Posting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, &domain.Posting{
			ID:                     row.ID,
			AccountID:              row.AccountID,
			TransferID:             row.TransferID,
			Amount:                 numericToDecimal(row.Amount),
			AccountPreviousBalance: numericToDecimal(row.AccountPreviousBalance),
			AccountCurrentBalance:  numericToDecimal(row.AccountCurrentBalance),
			AccountVersion:         row.AccountVersion,
			CreatedAt:              row.CreatedAt.Time,
		})
	}

	return postings, nil
}
