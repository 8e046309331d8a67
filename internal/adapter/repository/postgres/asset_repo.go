package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/postgres/generated"
	"github.com/iho/goraffle/internal/usecase"
)

// AssetRepository implements usecase.AssetRepository.
type AssetRepository struct {
	queries *generated.Queries
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(pool *pgxpool.Pool) *AssetRepository {
	return newAssetRepository(pool)
}

func newAssetRepository(db generated.DBTX) *AssetRepository {
	return &AssetRepository{queries: generated.New(db)}
}

// Create registers a prize asset.
func (r *AssetRepository) Create(ctx context.Context, tx usecase.Transaction, asset *domain.PrizeAsset) error {
	var metadata []byte
	if asset.Metadata != nil {
		var err error
		metadata, err = json.Marshal(asset.Metadata)
		if err != nil {
			return err
		}
	}

	return txQueries(tx).CreatePrizeAsset(ctx, generated.CreatePrizeAssetParams{
		ID:        asset.ID,
		Name:      asset.Name,
		Owner:     asset.Owner,
		Metadata:  metadata,
		CreatedAt: timeToPgTimestamptz(asset.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(asset.UpdatedAt),
	})
}

// GetByID retrieves a prize asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*domain.PrizeAsset, error) {
	row, err := r.queries.GetPrizeAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	return rowToAsset(row), nil
}

// GetByIDForUpdate retrieves a prize asset with a FOR UPDATE lock.
func (r *AssetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PrizeAsset, error) {
	row, err := txQueries(tx).GetPrizeAssetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}

		return nil, err
	}

	return rowToAsset(row), nil
}

// UpdateOwner records a change of custody.
func (r *AssetRepository) UpdateOwner(ctx context.Context, tx usecase.Transaction, id, owner string, updatedAt time.Time) error {
	n, err := txQueries(tx).UpdatePrizeAssetOwner(ctx, generated.UpdatePrizeAssetOwnerParams{
		ID:        id,
		Owner:     owner,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAssetNotFound
	}

	return nil
}

// ListByOwner lists assets held by owner.
func (r *AssetRepository) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error) {
	rows, err := r.queries.ListPrizeAssetsByOwner(ctx, generated.ListPrizeAssetsByOwnerParams{
		Owner:  owner,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	assets := make([]*domain.PrizeAsset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, rowToAsset(row))
	}

	return assets, nil
}

func rowToAsset(row generated.PrizeAsset) *domain.PrizeAsset {
	var metadata map[string]any
	if row.Metadata != nil {
		_ = json.Unmarshal(row.Metadata, &metadata)
	}

	return &domain.PrizeAsset{
		ID:        row.ID,
		Name:      row.Name,
		Owner:     row.Owner,
		Metadata:  metadata,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
