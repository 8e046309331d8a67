package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

// MockRaffleRepository is an in-memory implementation of RaffleRepository.
// Reads return copies so callers only change stored state through the
// repository methods.
type MockRaffleRepository struct {
	mu      sync.RWMutex
	raffles map[string]*domain.Raffle

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, raffle *domain.Raffle) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Raffle, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Raffle, error)
	UpdateEntriesFunc    func(ctx context.Context, tx usecase.Transaction, id string, currentEntries int64, escrowedFunds decimal.Decimal, updatedAt time.Time) error
	SetWinnerFunc        func(ctx context.Context, tx usecase.Transaction, raffle *domain.Raffle) error
	MarkClaimedFunc      func(ctx context.Context, tx usecase.Transaction, id string, claimedAt time.Time) error
}

func NewMockRaffleRepository() *MockRaffleRepository {
	return &MockRaffleRepository{
		raffles: make(map[string]*domain.Raffle),
	}
}

func cloneRaffle(r *domain.Raffle) *domain.Raffle {
	c := *r
	return &c
}

func (m *MockRaffleRepository) Create(ctx context.Context, tx usecase.Transaction, raffle *domain.Raffle) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, raffle)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raffles[raffle.ID] = cloneRaffle(raffle)
	return nil
}

func (m *MockRaffleRepository) GetByID(ctx context.Context, id string) (*domain.Raffle, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.raffles[id]; ok {
		return cloneRaffle(r), nil
	}
	return nil, domain.ErrRaffleNotFound
}

func (m *MockRaffleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Raffle, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockRaffleRepository) UpdateEntries(ctx context.Context, tx usecase.Transaction, id string, currentEntries int64, escrowedFunds decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateEntriesFunc != nil {
		return m.UpdateEntriesFunc(ctx, tx, id, currentEntries, escrowedFunds, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.raffles[id]
	if !ok {
		return domain.ErrRaffleNotFound
	}
	r.CurrentEntries = currentEntries
	r.EscrowedFunds = escrowedFunds
	r.UpdatedAt = updatedAt
	r.Version++
	return nil
}

func (m *MockRaffleRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.RaffleStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.raffles[id]
	if !ok {
		return domain.ErrRaffleNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	r.Version++
	return nil
}

func (m *MockRaffleRepository) SetWinner(ctx context.Context, tx usecase.Transaction, raffle *domain.Raffle) error {
	if m.SetWinnerFunc != nil {
		return m.SetWinnerFunc(ctx, tx, raffle)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.raffles[raffle.ID]
	if !ok {
		return domain.ErrRaffleNotFound
	}
	if r.Winner != nil {
		return domain.ErrAlreadyDrawn
	}
	stored := cloneRaffle(raffle)
	stored.Version = r.Version + 1
	m.raffles[raffle.ID] = stored
	return nil
}

func (m *MockRaffleRepository) MarkClaimed(ctx context.Context, tx usecase.Transaction, id string, claimedAt time.Time) error {
	if m.MarkClaimedFunc != nil {
		return m.MarkClaimedFunc(ctx, tx, id, claimedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.raffles[id]
	if !ok {
		return domain.ErrRaffleNotFound
	}
	if r.Status == domain.RaffleStatusClaimed {
		return domain.ErrPrizeAlreadyClaimed
	}
	r.Status = domain.RaffleStatusClaimed
	r.EscrowedFunds = decimal.Zero
	r.ClaimedAt = &claimedAt
	r.UpdatedAt = claimedAt
	r.Version++
	return nil
}

func (m *MockRaffleRepository) List(ctx context.Context, status domain.RaffleStatus, limit, offset int) ([]*domain.Raffle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var raffles []*domain.Raffle
	for _, r := range m.raffles {
		if status == "" || r.Status == status {
			raffles = append(raffles, cloneRaffle(r))
		}
	}
	sort.Slice(raffles, func(i, j int) bool { return raffles[i].ID < raffles[j].ID })
	return paginate(raffles, limit, offset), nil
}

func (m *MockRaffleRepository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*domain.Raffle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var raffles []*domain.Raffle
	for _, r := range m.raffles {
		if r.Status == domain.RaffleStatusActive && r.DeadlinePassed(now) {
			raffles = append(raffles, cloneRaffle(r))
		}
	}
	sort.Slice(raffles, func(i, j int) bool { return raffles[i].EndTimestamp.Before(raffles[j].EndTimestamp) })
	return paginate(raffles, limit, 0), nil
}

// MockEntryRepository is an in-memory implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string][]*domain.Entry

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIndexFunc func(ctx context.Context, tx usecase.Transaction, raffleID string, index int64) (*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string][]*domain.Entry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries[entry.RaffleID] {
		if e.StartIndex == entry.StartIndex {
			return fmt.Errorf("duplicate entry start index %d", entry.StartIndex)
		}
	}
	m.entries[entry.RaffleID] = append(m.entries[entry.RaffleID], entry)
	sort.Slice(m.entries[entry.RaffleID], func(i, j int) bool {
		return m.entries[entry.RaffleID][i].StartIndex < m.entries[entry.RaffleID][j].StartIndex
	})
	return nil
}

func (m *MockEntryRepository) GetByIndex(ctx context.Context, tx usecase.Transaction, raffleID string, index int64) (*domain.Entry, error) {
	if m.GetByIndexFunc != nil {
		return m.GetByIndexFunc(ctx, tx, raffleID, index)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *domain.Entry
	for _, e := range m.entries[raffleID] {
		if e.StartIndex <= index {
			found = e
		}
	}
	if found == nil {
		return nil, domain.ErrEntryNotFound
	}
	return found, nil
}

func (m *MockEntryRepository) ListByRaffle(ctx context.Context, raffleID string, limit, offset int) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.entries[raffleID], limit, offset), nil
}

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; ok {
		return domain.ErrAccountExists
	}
	m.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return cloneAccount(acc), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, cloneAccount(acc))
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, cloneAccount(acc))
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return paginate(accounts, limit, offset), nil
}

// MockTransferRepository is an in-memory implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers []*domain.Transfer

	CreateFunc func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers = append(m.transfers, transfer)
	return nil
}

func (m *MockTransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			transfers = append(transfers, t)
		}
	}
	return paginate(transfers, limit, offset), nil
}

// All returns every recorded transfer in creation order.
func (m *MockTransferRepository) All() []*domain.Transfer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transfer(nil), m.transfers...)
}

// MockPostingRepository is an in-memory implementation of PostingRepository.
type MockPostingRepository struct {
	mu       sync.RWMutex
	postings []*domain.Posting

	CreateFunc func(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error
}

func NewMockPostingRepository() *MockPostingRepository {
	return &MockPostingRepository{}
}

func (m *MockPostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.Posting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, posting)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postings = append(m.postings, posting)
	return nil
}

func (m *MockPostingRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var postings []*domain.Posting
	for i := len(m.postings) - 1; i >= 0; i-- {
		if m.postings[i].AccountID == accountID {
			postings = append(postings, m.postings[i])
		}
	}
	return paginate(postings, limit, offset), nil
}

// MockAssetRepository is an in-memory implementation of AssetRepository.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.PrizeAsset

	UpdateOwnerFunc func(ctx context.Context, tx usecase.Transaction, id, owner string, updatedAt time.Time) error
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{
		assets: make(map[string]*domain.PrizeAsset),
	}
}

func cloneAsset(a *domain.PrizeAsset) *domain.PrizeAsset {
	c := *a
	return &c
}

func (m *MockAssetRepository) Create(ctx context.Context, tx usecase.Transaction, asset *domain.PrizeAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = cloneAsset(asset)
	return nil
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id string) (*domain.PrizeAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assets[id]; ok {
		return cloneAsset(a), nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.PrizeAsset, error) {
	return m.GetByID(ctx, id)
}

func (m *MockAssetRepository) UpdateOwner(ctx context.Context, tx usecase.Transaction, id, owner string, updatedAt time.Time) error {
	if m.UpdateOwnerFunc != nil {
		return m.UpdateOwnerFunc(ctx, tx, id, owner, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return domain.ErrAssetNotFound
	}
	a.Owner = owner
	a.UpdatedAt = updatedAt
	return nil
}

func (m *MockAssetRepository) ListByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var assets []*domain.PrizeAsset
	for _, a := range m.assets {
		if a.Owner == owner {
			assets = append(assets, cloneAsset(a))
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return paginate(assets, limit, offset), nil
}

// MockOutboxRepository is an in-memory implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
	}
	return paginate(events, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return paginate(events, limit, offset), nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

func (m *MockOutboxRepository) CountUnpublished(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, e := range m.events {
		if !e.Published {
			n++
		}
	}
	return n, nil
}

// EventTypes returns the type of every recorded event in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return decimal.Zero, decimal.Zero, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu  sync.Mutex
	txs []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Committed returns how many transactions were committed.
func (m *MockTransactionManager) Committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.txs {
		if tx.committed {
			n++
		}
	}
	return n
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	committed bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier retries an operation while RetryOn reports true.
type MockRetrier struct {
	MaxAttempts int
	RetryOn     func(err error) bool
	Attempts    int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for m.Attempts = 1; ; m.Attempts++ {
		err = operation()
		if err == nil || m.RetryOn == nil || !m.RetryOn(err) || m.Attempts >= m.MaxAttempts {
			return err
		}
	}
}

// MockCache is an in-memory implementation of Cache.
type MockCache struct {
	mu          sync.RWMutex
	data        map[string][]byte
	generations map[string]int64

	Deleted []string
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte), generations: make(map[string]int64)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (m *MockCache) Generation(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generations[key], nil
}

func (m *MockCache) Fill(ctx context.Context, key string, generation int64, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[key] != generation {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.generations[key]++
	m.Deleted = append(m.Deleted, key)
	return nil
}

// Has reports whether key is cached.
func (m *MockCache) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	m.data[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Has reports whether key is held.
func (m *MockIdempotencyStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return append([]T(nil), items...)
}
