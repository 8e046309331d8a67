package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultRaffleCacheTTL is how long a raffle view stays cached
	DefaultRaffleCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultSweepBatchSize bounds how many expired raffles one sweep closes
	DefaultSweepBatchSize = 100

	// reconciliationPageSize is the page size used when scanning entry ledgers
	reconciliationPageSize = 1000
)
