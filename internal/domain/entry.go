package domain

import (
	"math"
	"sort"
	"time"
)

const maxEntryIndex = math.MaxInt64

// Entry is one purchase in a raffle's entry ledger. It owns the half-open
// index range [StartIndex, StartIndex+Count).
type Entry struct {
	CreatedAt  time.Time
	RaffleID   string
	Entrant    string
	StartIndex int64
	Count      int64
}

// EndIndex returns the exclusive upper bound of the range.
func (e *Entry) EndIndex() int64 {
	return e.StartIndex + e.Count
}

// Contains reports whether index falls inside the range.
func (e *Entry) Contains(index int64) bool {
	return index >= e.StartIndex && index < e.EndIndex()
}

// ResolveEntrant finds the owner of index. entries must be sorted by
// StartIndex and contiguous, as the entry ledger produces them.
func ResolveEntrant(entries []*Entry, index int64) (string, error) {
	if index < 0 || len(entries) == 0 {
		return "", ErrEntryNotFound
	}

	// first range that ends after index
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].EndIndex() > index
	})
	if i == len(entries) || !entries[i].Contains(index) {
		return "", ErrEntryNotFound
	}

	return entries[i].Entrant, nil
}

// TotalEntries sums the counts of entries.
func TotalEntries(entries []*Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Count
	}
	return total
}

// CheckContiguous verifies that entries tile [0, total) without gaps or overlaps.
func CheckContiguous(entries []*Entry) error {
	var next int64
	for _, e := range entries {
		if e.Count <= 0 || e.StartIndex != next {
			return ErrEntryLedgerCorrupt
		}
		next = e.EndIndex()
	}
	return nil
}
