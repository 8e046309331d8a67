package domain

import (
	"errors"
	"math/big"
	"testing"
)

func TestSeedWinningIndex(t *testing.T) {
	idx, err := SeedFromUint64(7).WinningIndex(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 2 {
		t.Fatalf("expected index 2, got %d", idx)
	}
}

func TestSeedWinningIndex_UsesFullWidth(t *testing.T) {
	var seed Seed
	for i := range seed {
		seed[i] = 0xff
	}

	// (2^256 - 1) mod 1000
	want := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	want.Mod(want, big.NewInt(1000))

	idx, err := seed.WinningIndex(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != want.Int64() {
		t.Fatalf("expected %d, got %d", want.Int64(), idx)
	}
}

func TestSeedWinningIndex_NoEntries(t *testing.T) {
	if _, err := SeedFromUint64(7).WinningIndex(0); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
}

func TestDeriveSeed_Deterministic(t *testing.T) {
	var hash [32]byte
	hash[0] = 0xab

	a := DeriveSeed(hash, "raffle-1")
	b := DeriveSeed(hash, "raffle-1")
	c := DeriveSeed(hash, "raffle-2")

	if a != b {
		t.Fatalf("expected identical seeds for identical input")
	}
	if a == c {
		t.Fatalf("expected different raffles to get different seeds")
	}
}

func TestParseSeed_RoundTrip(t *testing.T) {
	seed := SeedFromUint64(42)

	parsed, err := ParseSeed(seed.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != seed {
		t.Fatalf("expected %s, got %s", seed.Hex(), parsed.Hex())
	}

	if _, err := ParseSeed("zz"); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
}
