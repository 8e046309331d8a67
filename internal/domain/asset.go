package domain

import "time"

// PrizeAsset is a unique asset whose custody is tracked by owner identity.
type PrizeAsset struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Metadata  map[string]any
	ID        string
	Name      string
	Owner     string
}

// CheckTransfer validates moving the asset out of from's custody.
func (a *PrizeAsset) CheckTransfer(from, to string) error {
	if a.Owner != from {
		return ErrAssetNotOwned
	}
	if to == "" || to == from {
		return ErrInvalidIdentity
	}
	return nil
}
