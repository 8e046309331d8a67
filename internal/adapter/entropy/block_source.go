// Package entropy supplies draw randomness taken from public block hashes.
package entropy

//go:generate mockgen -source=block_source.go -destination=mocks/mock_header_reader.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

// HeaderReader reads block headers. A nil number means the chain head.
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// BlockSource implements usecase.EntropySource. The seed for a raffle is
// derived from the hash of the first block stamped at or after the raffle
// deadline plus the allowed clock skew, so nobody can know it while entries
// are still being sold.
//
// The deadline is enforced with the server clock and the block is chosen by
// chain time. A block stamped clockSkew past the deadline was mined after
// the server stopped selling entries as long as the chain clock runs at most
// clockSkew ahead of the server.
type BlockSource struct {
	reader        HeaderReader
	metrics       *metrics.Metrics
	confirmations uint64
	clockSkew     time.Duration
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string, confirmations uint64) (*BlockSource, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	return NewBlockSource(client, confirmations), client, nil
}

// NewBlockSource creates a BlockSource. The selected block must have at
// least confirmations blocks on top of it before it is used.
func NewBlockSource(reader HeaderReader, confirmations uint64) *BlockSource {
	return &BlockSource{
		reader:        reader,
		confirmations: confirmations,
	}
}

// WithClockSkew sets how far the chain clock may run ahead of the server.
// Changing it moves the seed block of raffles not drawn yet.
func (s *BlockSource) WithClockSkew(d time.Duration) *BlockSource {
	if d > 0 {
		s.clockSkew = d
	}
	return s
}

// WithMetrics records lookup outcomes.
func (s *BlockSource) WithMetrics(m *metrics.Metrics) *BlockSource {
	s.metrics = m
	return s
}

// Entropy returns the seed for raffleID.
func (s *BlockSource) Entropy(ctx context.Context, raffleID string, endTimestamp time.Time) (domain.Entropy, error) {
	start := time.Now()

	entropy, err := s.lookup(ctx, raffleID, endTimestamp)

	if s.metrics != nil {
		s.metrics.EntropyDuration.Observe(time.Since(start).Seconds())
		s.metrics.EntropyLookups.WithLabelValues(lookupResult(err)).Inc()
	}

	return entropy, err
}

func (s *BlockSource) lookup(ctx context.Context, raffleID string, endTimestamp time.Time) (domain.Entropy, error) {
	// block times are whole seconds; round up so the block is never early
	deadline := uint64(endTimestamp.Add(s.clockSkew + time.Second - 1).Unix())

	head, err := s.reader.HeaderByNumber(ctx, nil)
	if err != nil {
		return domain.Entropy{}, fmt.Errorf("failed to read chain head: %w", err)
	}
	if head.Time < deadline {
		return domain.Entropy{}, domain.ErrEntropyUnavailable
	}

	header, err := s.firstBlockAtOrAfter(ctx, head, deadline)
	if err != nil {
		return domain.Entropy{}, err
	}

	number := header.Number.Uint64()
	if head.Number.Uint64()-number < s.confirmations {
		return domain.Entropy{}, domain.ErrEntropyUnavailable
	}

	hash := header.Hash()

	return domain.Entropy{
		Seed:        domain.DeriveSeed(hash, raffleID),
		BlockNumber: number,
		BlockHash:   hash.Hex(),
	}, nil
}

// firstBlockAtOrAfter binary searches block numbers for the lowest block
// whose timestamp is not before deadline. head must satisfy the predicate.
func (s *BlockSource) firstBlockAtOrAfter(ctx context.Context, head *types.Header, deadline uint64) (*types.Header, error) {
	lo, hi := uint64(0), head.Number.Uint64()
	found := head

	for lo < hi {
		mid := lo + (hi-lo)/2

		header, err := s.reader.HeaderByNumber(ctx, new(big.Int).SetUint64(mid))
		if err != nil {
			return nil, fmt.Errorf("failed to read block %d: %w", mid, err)
		}

		if header.Time >= deadline {
			hi = mid
			found = header
		} else {
			lo = mid + 1
		}
	}

	return found, nil
}

func lookupResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrEntropyUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
