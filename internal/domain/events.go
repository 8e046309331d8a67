package domain

import "time"

// Event types
const (
	EventTypeRaffleInitialized = "raffle.initialized"
	EventTypeRaffleEntered     = "raffle.entered"
	EventTypeRaffleClosed      = "raffle.closed"
	EventTypeWinnerDrawn       = "raffle.winner_drawn"
	EventTypePrizeClaimed      = "raffle.prize_claimed"
	EventTypeTokensMinted      = "account.minted"
	EventTypeAssetRegistered   = "asset.registered"
)

// Aggregate types
const (
	AggregateTypeRaffle  = "raffle"
	AggregateTypeAccount = "account"
	AggregateTypeAsset   = "asset"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewRaffleEvent builds an outbox event for a raffle transition.
func NewRaffleEvent(id string, raffle *Raffle, eventType string, payload map[string]any, now time.Time) *OutboxEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["raffle_id"] = raffle.ID
	payload["status"] = string(raffle.Status)
	payload["current_entries"] = raffle.CurrentEntries
	payload["escrowed_funds"] = raffle.EscrowedFunds.String()
	payload["event_at"] = now.Format(time.RFC3339Nano)

	return &OutboxEvent{
		ID:            id,
		AggregateID:   raffle.ID,
		AggregateType: AggregateTypeRaffle,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	}
}
