package usecase

import (
	"context"
	"time"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// AssetUseCase registers and looks up prize assets.
type AssetUseCase struct {
	txManager  TransactionManager
	assetRepo  AssetRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	clock      Clock
	metrics    *metrics.Metrics
}

// NewAssetUseCase creates a new AssetUseCase.
func NewAssetUseCase(
	txManager TransactionManager,
	assetRepo AssetRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
) *AssetUseCase {
	if clock == nil {
		clock = SystemClock{}
	}

	return &AssetUseCase{
		txManager:  txManager,
		assetRepo:  assetRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		clock:      clock,
		metrics:    m,
	}
}

// RegisterAssetInput represents input for registering a prize asset.
type RegisterAssetInput struct {
	Metadata map[string]any
	Owner    string
	Name     string
}

// RegisterAsset mints a new unique asset into the owner's custody.
func (uc *AssetUseCase) RegisterAsset(ctx context.Context, input RegisterAssetInput) (*domain.PrizeAsset, error) {
	if err := domain.ValidateIdentity(input.Owner); err != nil {
		return nil, err
	}
	if err := domain.ValidateAssetName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := uc.clock.Now()
	asset := &domain.PrizeAsset{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Owner:     input.Owner,
		Metadata:  input.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.assetRepo.Create(txCtx, tx, asset); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   asset.ID,
		AggregateType: domain.AggregateTypeAsset,
		EventType:     domain.EventTypeAssetRegistered,
		Payload: map[string]any{
			"asset_id": asset.ID,
			"name":     asset.Name,
			"owner":    asset.Owner,
			"event_at": now.Format(time.RFC3339Nano),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AssetsRegistered.Inc()
	}

	return asset, nil
}

// GetAsset retrieves an asset by ID.
func (uc *AssetUseCase) GetAsset(ctx context.Context, id string) (*domain.PrizeAsset, error) {
	return uc.assetRepo.GetByID(ctx, id)
}

// ListAssetsByOwner lists the assets currently held by owner.
func (uc *AssetUseCase) ListAssetsByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.assetRepo.ListByOwner(ctx, owner, limit, offset)
}
