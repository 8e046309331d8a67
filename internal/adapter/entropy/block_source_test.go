package entropy_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/goraffle/internal/adapter/entropy"
	"github.com/iho/goraffle/internal/adapter/entropy/mocks"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/metrics"
)

const genesis = 1_700_000_000

// fakeChain has one block every 12 seconds starting at genesis.
func fakeChain(t *testing.T, height uint64) (*mocks.MockHeaderReader, map[uint64]*types.Header) {
	t.Helper()

	headers := make(map[uint64]*types.Header, height+1)
	for n := uint64(0); n <= height; n++ {
		headers[n] = &types.Header{
			Number:     new(big.Int).SetUint64(n),
			Time:       genesis + 12*n,
			Difficulty: big.NewInt(1),
			Extra:      []byte{byte(n)},
		}
	}

	reader := mocks.NewMockHeaderReader(gomock.NewController(t))
	reader.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, number *big.Int) (*types.Header, error) {
			if number == nil {
				return headers[height], nil
			}
			h, ok := headers[number.Uint64()]
			if !ok {
				return nil, errors.New("not found")
			}
			return h, nil
		},
	).AnyTimes()

	return reader, headers
}

func TestBlockSourcePicksFirstBlockAfterDeadline(t *testing.T) {
	tests := []struct {
		name     string
		deadline int64
		want     uint64
	}{
		{"exact block time", genesis + 12*40, 40},
		{"between blocks", genesis + 12*40 + 5, 41},
		{"before genesis", genesis - 100, 0},
		{"head itself", genesis + 12*100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, headers := fakeChain(t, 100)
			source := entropy.NewBlockSource(reader, 0)

			got, err := source.Entropy(context.Background(), "raffle-1", time.Unix(tt.deadline, 0))
			require.NoError(t, err)

			hash := headers[tt.want].Hash()
			assert.Equal(t, tt.want, got.BlockNumber)
			assert.Equal(t, hash.Hex(), got.BlockHash)
			assert.Equal(t, domain.DeriveSeed(hash, "raffle-1"), got.Seed)
		})
	}
}

func TestBlockSourceUnavailableBeforeDeadline(t *testing.T) {
	reader, _ := fakeChain(t, 10)
	source := entropy.NewBlockSource(reader, 0)

	_, err := source.Entropy(context.Background(), "raffle-1", time.Unix(genesis+12*11, 0))
	assert.ErrorIs(t, err, domain.ErrEntropyUnavailable)
}

func TestBlockSourceWaitsForConfirmations(t *testing.T) {
	reader, _ := fakeChain(t, 50)
	source := entropy.NewBlockSource(reader, 5)

	_, err := source.Entropy(context.Background(), "raffle-1", time.Unix(genesis+12*48, 0))
	assert.ErrorIs(t, err, domain.ErrEntropyUnavailable)

	got, err := source.Entropy(context.Background(), "raffle-1", time.Unix(genesis+12*45, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(45), got.BlockNumber)
}

func TestBlockSourceSkipsBlocksWithinClockSkew(t *testing.T) {
	reader, headers := fakeChain(t, 100)
	deadline := time.Unix(genesis+12*40, 0)

	// block 40 is stamped at the deadline but may have been mined while a
	// lagging server still sold entries
	source := entropy.NewBlockSource(reader, 0).WithClockSkew(30 * time.Second)

	got, err := source.Entropy(context.Background(), "raffle-1", deadline)
	require.NoError(t, err)
	assert.Equal(t, uint64(43), got.BlockNumber)
	assert.Equal(t, headers[43].Hash().Hex(), got.BlockHash)

	_, err = entropy.NewBlockSource(reader, 0).WithClockSkew(12*60*time.Second+time.Second).
		Entropy(context.Background(), "raffle-1", deadline)
	assert.ErrorIs(t, err, domain.ErrEntropyUnavailable)
}

func TestBlockSourceRoundsSubSecondDeadlineUp(t *testing.T) {
	reader, _ := fakeChain(t, 100)
	source := entropy.NewBlockSource(reader, 0)

	got, err := source.Entropy(context.Background(), "raffle-1", time.Unix(genesis+12*40, int64(500*time.Millisecond)))
	require.NoError(t, err)
	assert.Equal(t, uint64(41), got.BlockNumber)
}

func TestBlockSourceSeedDependsOnRaffle(t *testing.T) {
	reader, _ := fakeChain(t, 20)
	source := entropy.NewBlockSource(reader, 0)
	deadline := time.Unix(genesis+12*3, 0)

	a, err := source.Entropy(context.Background(), "raffle-a", deadline)
	require.NoError(t, err)
	b, err := source.Entropy(context.Background(), "raffle-b", deadline)
	require.NoError(t, err)

	assert.Equal(t, a.BlockNumber, b.BlockNumber)
	assert.NotEqual(t, a.Seed, b.Seed)
}

func TestBlockSourceReadError(t *testing.T) {
	reader := mocks.NewMockHeaderReader(gomock.NewController(t))
	reader.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(nil, errors.New("rpc down"))

	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	source := entropy.NewBlockSource(reader, 0).WithMetrics(m)

	_, err := source.Entropy(context.Background(), "raffle-1", time.Unix(genesis, 0))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEntropyUnavailable)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EntropyLookups.WithLabelValues("error")))
}

func TestRandomSource(t *testing.T) {
	source := entropy.NewRandomSource()

	a, err := source.Entropy(context.Background(), "r", time.Now())
	require.NoError(t, err)
	b, err := source.Entropy(context.Background(), "r", time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, a.Seed, b.Seed)
}
