package usecase

import (
	"context"
	"time"
)

// AssetCustody moves prize assets between owners inside a caller-owned
// transaction.
type AssetCustody struct {
	assetRepo AssetRepository
}

// NewAssetCustody creates a new AssetCustody.
func NewAssetCustody(assetRepo AssetRepository) *AssetCustody {
	return &AssetCustody{assetRepo: assetRepo}
}

// Transfer moves assetID from one owner to another.
func (c *AssetCustody) Transfer(ctx context.Context, tx Transaction, from, to, assetID string, now time.Time) error {
	asset, err := c.assetRepo.GetByIDForUpdate(ctx, tx, assetID)
	if err != nil {
		return err
	}

	if err := asset.CheckTransfer(from, to); err != nil {
		return err
	}

	if err := c.assetRepo.UpdateOwner(ctx, tx, assetID, to, now); err != nil {
		return err
	}

	asset.Owner = to
	asset.UpdatedAt = now

	return nil
}
