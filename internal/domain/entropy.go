package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// SeedSize is the width of a draw seed in bytes.
const SeedSize = 32

// seedDomain separates draw seeds from any other use of the same block hash.
const seedDomain = "goraffle/draw/v1"

// Seed is a 256-bit unsigned integer in big-endian byte order.
type Seed [SeedSize]byte

// Entropy is the randomness a draw was performed with, together with the
// block it was taken from so observers can recompute it.
type Entropy struct {
	BlockHash   string
	Seed        Seed
	BlockNumber uint64
}

// DeriveSeed computes SHA-256(seedDomain || blockHash || raffleID).
// blockHash is the raw 32-byte header hash and raffleID is UTF-8 encoded.
func DeriveSeed(blockHash [32]byte, raffleID string) Seed {
	h := sha256.New()
	h.Write([]byte(seedDomain))
	h.Write(blockHash[:])
	h.Write([]byte(raffleID))

	var s Seed
	copy(s[:], h.Sum(nil))
	return s
}

// SeedFromUint64 builds a seed whose integer value is v.
func SeedFromUint64(v uint64) Seed {
	var s Seed
	new(big.Int).SetUint64(v).FillBytes(s[:])
	return s
}

// ParseSeed decodes a hex encoded seed.
func ParseSeed(s string) (Seed, error) {
	var seed Seed
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != SeedSize {
		return seed, ErrInvalidSeed
	}
	copy(seed[:], b)
	return seed, nil
}

// Hex returns the seed as lowercase hex.
func (s Seed) Hex() string {
	return hex.EncodeToString(s[:])
}

// Int returns the seed as an unsigned integer.
func (s Seed) Int() *big.Int {
	return new(big.Int).SetBytes(s[:])
}

// WinningIndex maps the seed onto [0, n) by reduction modulo n.
//
// Plain modulo over a 256-bit value favours the lowest 2^256 mod n indices by
// one part in floor(2^256/n). For any entry count that fits in an int64 the
// bias is below 2^-192 and is accepted instead of rejection sampling, which
// would need more entropy than a single block hash provides.
func (s Seed) WinningIndex(n int64) (int64, error) {
	if n <= 0 {
		return 0, ErrNoEntries
	}
	idx := new(big.Int).Mod(s.Int(), big.NewInt(n))
	return idx.Int64(), nil
}
