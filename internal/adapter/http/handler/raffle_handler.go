package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

// RaffleService defines the behavior needed by RaffleHandler.
type RaffleService interface {
	InitializeRaffle(ctx context.Context, input usecase.InitializeRaffleInput) (*domain.Raffle, error)
	EnterRaffle(ctx context.Context, input usecase.EnterRaffleInput) (*usecase.EnterRaffleResult, error)
	CloseRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error)
	DrawWinner(ctx context.Context, input usecase.DrawWinnerInput) (*domain.Raffle, error)
	ClaimPrize(ctx context.Context, input usecase.ClaimPrizeInput) (*domain.Raffle, error)
	GetRaffle(ctx context.Context, id string) (*domain.Raffle, error)
	ListRaffles(ctx context.Context, input usecase.ListRafflesInput) ([]*domain.Raffle, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
	ListEvents(ctx context.Context, input usecase.ListEventsInput) ([]*domain.OutboxEvent, error)
}

// RaffleHandler handles raffle lifecycle HTTP requests.
type RaffleHandler struct {
	raffleUC RaffleService
}

// NewRaffleHandler creates a new RaffleHandler.
func NewRaffleHandler(raffleUC RaffleService) *RaffleHandler {
	return &RaffleHandler{raffleUC: raffleUC}
}

// Create opens a raffle with the caller as authority.
func (h *RaffleHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req dto.InitializeRaffleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	raffle, err := h.raffleUC.InitializeRaffle(r.Context(), req.ToUseCaseInput(caller.ID))
	if err != nil {
		writeDomainError(w, "failed to initialize raffle", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RaffleFromDomain(raffle))
}

// Enter buys entries for the caller.
func (h *RaffleHandler) Enter(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req dto.EnterRaffleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.raffleUC.EnterRaffle(r.Context(), req.ToUseCaseInput(caller.ID, chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to enter raffle", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EnterRaffleFromResult(result))
}

// Close moves an expired raffle to ended.
func (h *RaffleHandler) Close(w http.ResponseWriter, r *http.Request) {
	raffle, err := h.raffleUC.CloseRaffle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to close raffle", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RaffleFromDomain(raffle))
}

// Draw selects the winner. Only the raffle authority may call it.
func (h *RaffleHandler) Draw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	raffle, err := h.raffleUC.DrawWinner(r.Context(), usecase.DrawWinnerInput{
		Caller:   caller.ID,
		RaffleID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeDomainError(w, "failed to draw winner", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RaffleFromDomain(raffle))
}

// Claim pays out the escrow and the prize to the winner.
func (h *RaffleHandler) Claim(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	raffle, err := h.raffleUC.ClaimPrize(r.Context(), usecase.ClaimPrizeInput{
		Caller:   caller.ID,
		RaffleID: chi.URLParam(r, "id"),
	})
	if err != nil {
		writeDomainError(w, "failed to claim prize", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RaffleFromDomain(raffle))
}

// Get retrieves a raffle by ID.
func (h *RaffleHandler) Get(w http.ResponseWriter, r *http.Request) {
	raffle, err := h.raffleUC.GetRaffle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get raffle", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RaffleFromDomain(raffle))
}

// List lists raffles, optionally filtered by status.
func (h *RaffleHandler) List(w http.ResponseWriter, r *http.Request) {
	raffles, err := h.raffleUC.ListRaffles(r.Context(), usecase.ListRafflesInput{
		Status: domain.RaffleStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list raffles", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRafflesResponse{
		Raffles: dto.RafflesFromDomain(raffles),
		Total:   int64(len(raffles)),
	})
}

// ListEntries lists a raffle's entry ledger.
func (h *RaffleHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.raffleUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		RaffleID: chi.URLParam(r, "id"),
		Limit:    parseIntQuery(r, "limit", 100),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// ListEvents returns the recorded transitions of a raffle.
func (h *RaffleHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.raffleUC.ListEvents(r.Context(), usecase.ListEventsInput{
		RaffleID: chi.URLParam(r, "id"),
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list events", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}
