package dto

import (
	"time"

	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

// DrawResponse is the audit record of a draw.
type DrawResponse struct {
	DrawnAt      time.Time `json:"drawn_at"`
	Winner       string    `json:"winner"`
	Seed         string    `json:"seed"`
	BlockHash    string    `json:"block_hash"`
	BlockNumber  uint64    `json:"block_number"`
	WinningIndex int64     `json:"winning_index"`
}

// RaffleResponse represents a raffle in API responses.
type RaffleResponse struct {
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	EndTimestamp    time.Time     `json:"end_timestamp"`
	ClaimedAt       *time.Time    `json:"claimed_at,omitempty"`
	Draw            *DrawResponse `json:"draw,omitempty"`
	ID              string        `json:"id"`
	Authority       string        `json:"authority"`
	PrizeAssetID    string        `json:"prize_asset_id"`
	EscrowAccountID string        `json:"escrow_account_id"`
	Status          string        `json:"status"`
	EntryPrice      string        `json:"entry_price"`
	EscrowedFunds   string        `json:"escrowed_funds"`
	MaxEntries      int64         `json:"max_entries"`
	CurrentEntries  int64         `json:"current_entries"`
	Version         int64         `json:"version"`
}

// RaffleFromDomain converts domain raffle to response.
func RaffleFromDomain(r *domain.Raffle) *RaffleResponse {
	resp := &RaffleResponse{
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		EndTimestamp:    r.EndTimestamp,
		ClaimedAt:       r.ClaimedAt,
		ID:              r.ID,
		Authority:       r.Authority,
		PrizeAssetID:    r.PrizeAssetID,
		EscrowAccountID: r.EscrowAccountID,
		Status:          string(r.Status),
		EntryPrice:      r.EntryPrice.String(),
		EscrowedFunds:   r.EscrowedFunds.String(),
		MaxEntries:      r.MaxEntries,
		CurrentEntries:  r.CurrentEntries,
		Version:         r.Version,
	}

	if r.HasWinner() {
		draw := &DrawResponse{
			Winner:    *r.Winner,
			Seed:      r.DrawSeed,
			BlockHash: r.DrawBlockHash,
		}
		if r.DrawnAt != nil {
			draw.DrawnAt = *r.DrawnAt
		}
		if r.DrawBlockNumber != nil {
			draw.BlockNumber = *r.DrawBlockNumber
		}
		if r.WinningIndex != nil {
			draw.WinningIndex = *r.WinningIndex
		}
		resp.Draw = draw
	}

	return resp
}

// RafflesFromDomain converts domain raffles to responses.
func RafflesFromDomain(raffles []*domain.Raffle) []*RaffleResponse {
	result := make([]*RaffleResponse, len(raffles))
	for i, r := range raffles {
		result[i] = RaffleFromDomain(r)
	}
	return result
}

// ListRafflesResponse represents a page of raffles.
type ListRafflesResponse struct {
	Raffles []*RaffleResponse `json:"raffles"`
	Total   int64             `json:"total"`
}

// EntryResponse represents one entry range of a raffle.
type EntryResponse struct {
	CreatedAt  time.Time `json:"created_at"`
	RaffleID   string    `json:"raffle_id"`
	Entrant    string    `json:"entrant"`
	StartIndex int64     `json:"start_index"`
	Count      int64     `json:"count"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		CreatedAt:  e.CreatedAt,
		RaffleID:   e.RaffleID,
		Entrant:    e.Entrant,
		StartIndex: e.StartIndex,
		Count:      e.Count,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a page of a raffle's entry ledger.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// EventResponse is one recorded transition.
type EventResponse struct {
	ID          string         `json:"id"`
	EventType   string         `json:"event_type"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
}

// EventsFromDomain converts outbox events to responses.
func EventsFromDomain(events []*domain.OutboxEvent) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, e := range events {
		result[i] = &EventResponse{
			ID:          e.ID,
			EventType:   e.EventType,
			Payload:     e.Payload,
			CreatedAt:   e.CreatedAt,
			PublishedAt: e.PublishedAt,
		}
	}
	return result
}

// ListEventsResponse represents a page of a raffle's event history.
type ListEventsResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int64            `json:"total"`
}

// EnterRaffleResponse is returned after buying entries.
type EnterRaffleResponse struct {
	Raffle   *RaffleResponse   `json:"raffle"`
	Entry    *EntryResponse    `json:"entry"`
	Transfer *TransferResponse `json:"transfer"`
}

// EnterRaffleFromResult converts the use case result to response.
func EnterRaffleFromResult(res *usecase.EnterRaffleResult) *EnterRaffleResponse {
	return &EnterRaffleResponse{
		Raffle:   RaffleFromDomain(res.Raffle),
		Entry:    EntryFromDomain(res.Entry),
		Transfer: TransferFromDomain(res.Transfer),
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                   string    `json:"id"`
	Currency             string    `json:"currency"`
	Balance              string    `json:"balance"`
	Version              int64     `json:"version"`
	AllowNegativeBalance bool      `json:"allow_negative_balance"`
	AllowPositiveBalance bool      `json:"allow_positive_balance"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		Currency:             a.Currency,
		Balance:              a.Balance.String(),
		Version:              a.Version,
		AllowNegativeBalance: a.AllowNegativeBalance,
		AllowPositiveBalance: a.AllowPositiveBalance,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string         `json:"id"`
	FromAccountID string         `json:"from_account_id"`
	ToAccountID   string         `json:"to_account_id"`
	Amount        string         `json:"amount"`
	CreatedAt     time.Time      `json:"created_at"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	if t == nil {
		return nil
	}
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount.String(),
		CreatedAt:     t.CreatedAt,
		Metadata:      t.Metadata,
	}
}

// PostingResponse represents one side of a transfer.
type PostingResponse struct {
	ID                     string    `json:"id"`
	AccountID              string    `json:"account_id"`
	TransferID             string    `json:"transfer_id"`
	Amount                 string    `json:"amount"`
	AccountPreviousBalance string    `json:"account_previous_balance"`
	AccountCurrentBalance  string    `json:"account_current_balance"`
	AccountVersion         int64     `json:"account_version"`
	CreatedAt              time.Time `json:"created_at"`
}

// PostingFromDomain converts domain posting to response.
func PostingFromDomain(p *domain.Posting) *PostingResponse {
	return &PostingResponse{
		ID:                     p.ID,
		AccountID:              p.AccountID,
		TransferID:             p.TransferID,
		Amount:                 p.Amount.String(),
		AccountPreviousBalance: p.AccountPreviousBalance.String(),
		AccountCurrentBalance:  p.AccountCurrentBalance.String(),
		AccountVersion:         p.AccountVersion,
		CreatedAt:              p.CreatedAt,
	}
}

// PostingsFromDomain converts domain postings to responses.
func PostingsFromDomain(postings []*domain.Posting) []*PostingResponse {
	result := make([]*PostingResponse, len(postings))
	for i, p := range postings {
		result[i] = PostingFromDomain(p)
	}
	return result
}

// AssetResponse represents a prize asset in API responses.
type AssetResponse struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Owner     string         `json:"owner"`
}

// AssetFromDomain converts domain asset to response.
func AssetFromDomain(a *domain.PrizeAsset) *AssetResponse {
	return &AssetResponse{
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Metadata:  a.Metadata,
		ID:        a.ID,
		Name:      a.Name,
		Owner:     a.Owner,
	}
}

// AssetsFromDomain converts domain assets to responses.
func AssetsFromDomain(assets []*domain.PrizeAsset) []*AssetResponse {
	result := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		result[i] = AssetFromDomain(a)
	}
	return result
}

// RaffleReportResponse is the reconciliation result for one raffle.
type RaffleReportResponse struct {
	CheckedAt      time.Time `json:"checked_at"`
	RaffleID       string    `json:"raffle_id"`
	Status         string    `json:"status"`
	Issues         []string  `json:"issues"`
	EscrowBalance  string    `json:"escrow_balance"`
	EscrowedFunds  string    `json:"escrowed_funds"`
	FeesCollected  string    `json:"fees_collected"`
	PaidOut        string    `json:"paid_out"`
	EntryTotal     int64     `json:"entry_total"`
	CurrentEntries int64     `json:"current_entries"`
	Consistent     bool      `json:"consistent"`
}

// RaffleReportFromUseCase converts a reconciliation report to response.
func RaffleReportFromUseCase(r *usecase.RaffleReport) *RaffleReportResponse {
	issues := r.Issues
	if issues == nil {
		issues = []string{}
	}
	return &RaffleReportResponse{
		CheckedAt:      r.CheckedAt,
		RaffleID:       r.RaffleID,
		Status:         string(r.Status),
		Issues:         issues,
		EscrowBalance:  r.EscrowBalance.String(),
		EscrowedFunds:  r.EscrowedFunds.String(),
		FeesCollected:  r.FeesCollected.String(),
		PaidOut:        r.PaidOut.String(),
		EntryTotal:     r.EntryTotal,
		CurrentEntries: r.CurrentEntries,
		Consistent:     r.Consistent,
	}
}

// ReconciliationReportResponse summarizes a full reconciliation run.
type ReconciliationReportResponse struct {
	CheckedAt         time.Time               `json:"checked_at"`
	Discrepancies     []*RaffleReportResponse `json:"discrepancies"`
	TotalRaffles      int                     `json:"total_raffles"`
	ConsistentRaffles int                     `json:"consistent_raffles"`
	LedgerConsistent  bool                    `json:"ledger_consistent"`
}

// ReconciliationReportFromUseCase converts a full report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*RaffleReportResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = RaffleReportFromUseCase(d)
	}
	return &ReconciliationReportResponse{
		CheckedAt:         r.CheckedAt,
		Discrepancies:     discrepancies,
		TotalRaffles:      r.TotalRaffles,
		ConsistentRaffles: r.ConsistentRaffles,
		LedgerConsistent:  r.LedgerConsistent,
	}
}

// IdentityResponse describes the authenticated caller.
type IdentityResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
