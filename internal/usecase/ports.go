package usecase

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

import (
	"context"
	"time"

	"github.com/iho/goraffle/internal/domain"
)

// EntropySource supplies the public randomness a draw is performed with.
// It must return domain.ErrEntropyUnavailable while no block at or after
// endTimestamp exists.
type EntropySource interface {
	Entropy(ctx context.Context, raffleID string, endTimestamp time.Time) (domain.Entropy, error)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
