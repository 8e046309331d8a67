package entropy

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/iho/goraffle/internal/domain"
)

// RandomSource draws seeds from the operating system CSPRNG. It has no
// public audit trail and is meant for local development without a chain.
type RandomSource struct{}

// NewRandomSource creates a RandomSource.
func NewRandomSource() *RandomSource {
	return &RandomSource{}
}

// Entropy returns a fresh random seed.
func (RandomSource) Entropy(_ context.Context, _ string, _ time.Time) (domain.Entropy, error) {
	var seed domain.Seed
	if _, err := rand.Read(seed[:]); err != nil {
		return domain.Entropy{}, err
	}

	return domain.Entropy{Seed: seed}, nil
}
