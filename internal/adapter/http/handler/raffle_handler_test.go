package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

type raffleServiceStub struct {
	initializeFn func(ctx context.Context, input usecase.InitializeRaffleInput) (*domain.Raffle, error)
	enterFn      func(ctx context.Context, input usecase.EnterRaffleInput) (*usecase.EnterRaffleResult, error)
	closeFn      func(ctx context.Context, raffleID string) (*domain.Raffle, error)
	drawFn       func(ctx context.Context, input usecase.DrawWinnerInput) (*domain.Raffle, error)
	claimFn      func(ctx context.Context, input usecase.ClaimPrizeInput) (*domain.Raffle, error)
	getFn        func(ctx context.Context, id string) (*domain.Raffle, error)
	listFn       func(ctx context.Context, input usecase.ListRafflesInput) ([]*domain.Raffle, error)
	entriesFn    func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
	eventsFn     func(ctx context.Context, input usecase.ListEventsInput) ([]*domain.OutboxEvent, error)
}

func (s *raffleServiceStub) InitializeRaffle(ctx context.Context, input usecase.InitializeRaffleInput) (*domain.Raffle, error) {
	return s.initializeFn(ctx, input)
}

func (s *raffleServiceStub) EnterRaffle(ctx context.Context, input usecase.EnterRaffleInput) (*usecase.EnterRaffleResult, error) {
	return s.enterFn(ctx, input)
}

func (s *raffleServiceStub) CloseRaffle(ctx context.Context, raffleID string) (*domain.Raffle, error) {
	return s.closeFn(ctx, raffleID)
}

func (s *raffleServiceStub) DrawWinner(ctx context.Context, input usecase.DrawWinnerInput) (*domain.Raffle, error) {
	return s.drawFn(ctx, input)
}

func (s *raffleServiceStub) ClaimPrize(ctx context.Context, input usecase.ClaimPrizeInput) (*domain.Raffle, error) {
	return s.claimFn(ctx, input)
}

func (s *raffleServiceStub) GetRaffle(ctx context.Context, id string) (*domain.Raffle, error) {
	return s.getFn(ctx, id)
}

func (s *raffleServiceStub) ListRaffles(ctx context.Context, input usecase.ListRafflesInput) ([]*domain.Raffle, error) {
	return s.listFn(ctx, input)
}

func (s *raffleServiceStub) ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
	return s.entriesFn(ctx, input)
}

func (s *raffleServiceStub) ListEvents(ctx context.Context, input usecase.ListEventsInput) ([]*domain.OutboxEvent, error) {
	return s.eventsFn(ctx, input)
}

// serve routes req through a chi router so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func asCaller(req *http.Request, id string) *http.Request {
	return req.WithContext(domain.WithIdentity(req.Context(), &domain.Identity{ID: id, Role: domain.RoleParticipant}))
}

func TestRaffleHandler_Create_UsesCallerAsAuthority(t *testing.T) {
	end := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	var captured usecase.InitializeRaffleInput
	h := NewRaffleHandler(&raffleServiceStub{
		initializeFn: func(ctx context.Context, input usecase.InitializeRaffleInput) (*domain.Raffle, error) {
			captured = input
			return &domain.Raffle{ID: "r1", Authority: input.Caller, Status: domain.RaffleStatusActive}, nil
		},
	})

	body, _ := json.Marshal(dto.InitializeRaffleRequest{
		EndTimestamp: end,
		PrizeAssetID: "asset-1",
		EntryPrice:   decimal.NewFromInt(10),
		MaxEntries:   5,
	})
	req := asCaller(httptest.NewRequest(http.MethodPost, "/raffles", bytes.NewReader(body)), "alice")

	rec := serve(http.MethodPost, "/raffles", h.Create, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Caller != "alice" || captured.PrizeAssetID != "asset-1" || !captured.EndTimestamp.Equal(end) {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.RaffleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Authority != "alice" {
		t.Fatalf("expected authority alice, got %s", resp.Authority)
	}
}

func TestRaffleHandler_Create_RequiresIdentity(t *testing.T) {
	h := NewRaffleHandler(&raffleServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/raffles", bytes.NewBufferString(`{}`))
	rec := serve(http.MethodPost, "/raffles", h.Create, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRaffleHandler_Create_RejectsUnknownFields(t *testing.T) {
	h := NewRaffleHandler(&raffleServiceStub{
		initializeFn: func(ctx context.Context, input usecase.InitializeRaffleInput) (*domain.Raffle, error) {
			t.Fatal("InitializeRaffle should not be called for invalid payload")
			return nil, nil
		},
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/raffles", bytes.NewBufferString(`{"authority":"mallory"}`)), "alice")
	rec := serve(http.MethodPost, "/raffles", h.Create, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRaffleHandler_Enter(t *testing.T) {
	var captured usecase.EnterRaffleInput
	h := NewRaffleHandler(&raffleServiceStub{
		enterFn: func(ctx context.Context, input usecase.EnterRaffleInput) (*usecase.EnterRaffleResult, error) {
			captured = input
			return &usecase.EnterRaffleResult{
				Raffle:   &domain.Raffle{ID: input.RaffleID, CurrentEntries: 2},
				Entry:    &domain.Entry{RaffleID: input.RaffleID, Entrant: input.Caller, Count: input.NumEntries},
				Transfer: &domain.Transfer{ID: "t1", Amount: decimal.NewFromInt(20)},
			}, nil
		},
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/raffles/r1/entries", bytes.NewBufferString(`{"num_entries":2}`)), "bob")
	rec := serve(http.MethodPost, "/raffles/{id}/entries", h.Enter, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	want := usecase.EnterRaffleInput{Caller: "bob", RaffleID: "r1", NumEntries: 2}
	if captured != want {
		t.Fatalf("expected %+v, got %+v", want, captured)
	}
}

func TestRaffleHandler_TransitionErrors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"max entries", domain.ErrMaxEntriesReached, http.StatusConflict},
		{"deadline passed", domain.ErrRaffleEnded, http.StatusConflict},
		{"insufficient tokens", domain.ErrTransferFailed, http.StatusUnprocessableEntity},
		{"missing raffle", domain.ErrRaffleNotFound, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRaffleHandler(&raffleServiceStub{
				enterFn: func(ctx context.Context, input usecase.EnterRaffleInput) (*usecase.EnterRaffleResult, error) {
					return nil, tc.err
				},
			})

			req := asCaller(httptest.NewRequest(http.MethodPost, "/raffles/r1/entries", bytes.NewBufferString(`{"num_entries":1}`)), "bob")
			rec := serve(http.MethodPost, "/raffles/{id}/entries", h.Enter, req)

			if rec.Code != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, rec.Code)
			}
		})
	}
}

func TestRaffleHandler_Draw(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, http.StatusOK},
		{"not authority", domain.ErrNotAuthority, http.StatusForbidden},
		{"before deadline", domain.ErrRaffleNotEnded, http.StatusUnprocessableEntity},
		{"second draw", domain.ErrAlreadyDrawn, http.StatusConflict},
		{"entropy pending", domain.ErrEntropyUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var captured usecase.DrawWinnerInput
			h := NewRaffleHandler(&raffleServiceStub{
				drawFn: func(ctx context.Context, input usecase.DrawWinnerInput) (*domain.Raffle, error) {
					captured = input
					if tc.err != nil {
						return nil, tc.err
					}
					winner := "bob"
					return &domain.Raffle{ID: input.RaffleID, Winner: &winner, Status: domain.RaffleStatusWinnerDrawn}, nil
				},
			})

			req := asCaller(httptest.NewRequest(http.MethodPost, "/raffles/r1/draw", nil), "alice")
			rec := serve(http.MethodPost, "/raffles/{id}/draw", h.Draw, req)

			if rec.Code != tc.expected {
				t.Fatalf("expected %d, got %d: %s", tc.expected, rec.Code, rec.Body.String())
			}
			if captured.Caller != "alice" || captured.RaffleID != "r1" {
				t.Fatalf("unexpected input: %+v", captured)
			}
		})
	}
}

func TestRaffleHandler_Claim(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, http.StatusOK},
		{"not winner", domain.ErrNotWinner, http.StatusForbidden},
		{"before draw", domain.ErrDrawNotComplete, http.StatusUnprocessableEntity},
		{"double claim", domain.ErrPrizeAlreadyClaimed, http.StatusConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRaffleHandler(&raffleServiceStub{
				claimFn: func(ctx context.Context, input usecase.ClaimPrizeInput) (*domain.Raffle, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return &domain.Raffle{ID: input.RaffleID, Winner: &input.Caller, Status: domain.RaffleStatusClaimed}, nil
				},
			})

			req := asCaller(httptest.NewRequest(http.MethodPost, "/raffles/r1/claim", nil), "bob")
			rec := serve(http.MethodPost, "/raffles/{id}/claim", h.Claim, req)

			if rec.Code != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, rec.Code)
			}
		})
	}
}

func TestRaffleHandler_ListPassesFilters(t *testing.T) {
	var captured usecase.ListRafflesInput
	h := NewRaffleHandler(&raffleServiceStub{
		listFn: func(ctx context.Context, input usecase.ListRafflesInput) ([]*domain.Raffle, error) {
			captured = input
			return []*domain.Raffle{{ID: "r1"}, {ID: "r2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/raffles?status=ended&limit=5&offset=10", nil)
	rec := serve(http.MethodGet, "/raffles", h.List, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Status != domain.RaffleStatusEnded || captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.ListRafflesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 raffles, got %d", resp.Total)
	}
}

func TestRaffleHandler_ListEntries(t *testing.T) {
	h := NewRaffleHandler(&raffleServiceStub{
		entriesFn: func(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error) {
			if input.RaffleID != "r1" {
				t.Fatalf("expected raffle r1, got %s", input.RaffleID)
			}
			return []*domain.Entry{
				{RaffleID: "r1", Entrant: "a", StartIndex: 0, Count: 2},
				{RaffleID: "r1", Entrant: "b", StartIndex: 2, Count: 2},
			}, nil
		},
	})

	rec := serve(http.MethodGet, "/raffles/{id}/entries", h.ListEntries, httptest.NewRequest(http.MethodGet, "/raffles/r1/entries", nil))

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Entries[1].StartIndex != 2 {
		t.Fatalf("unexpected entries: %+v", resp.Entries)
	}
}

func TestRaffleHandler_ListEvents(t *testing.T) {
	published := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewRaffleHandler(&raffleServiceStub{
		eventsFn: func(ctx context.Context, input usecase.ListEventsInput) ([]*domain.OutboxEvent, error) {
			if input.RaffleID != "r1" || input.Limit != 2 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return []*domain.OutboxEvent{
				{ID: "e1", EventType: domain.EventTypeRaffleInitialized, PublishedAt: &published},
				{ID: "e2", EventType: domain.EventTypeRaffleEntered, Payload: map[string]any{"count": float64(3)}},
			}, nil
		},
	})

	rec := serve(http.MethodGet, "/raffles/{id}/events", h.ListEvents, httptest.NewRequest(http.MethodGet, "/raffles/r1/events?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListEventsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || resp.Events[0].PublishedAt == nil || resp.Events[1].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", resp.Events)
	}
	if resp.Events[1].Payload["count"] != float64(3) {
		t.Fatalf("expected payload to round trip, got %+v", resp.Events[1].Payload)
	}
}

func TestRaffleHandler_ListEventsUnknownRaffle(t *testing.T) {
	h := NewRaffleHandler(&raffleServiceStub{
		eventsFn: func(ctx context.Context, input usecase.ListEventsInput) ([]*domain.OutboxEvent, error) {
			return nil, domain.ErrRaffleNotFound
		},
	})

	rec := serve(http.MethodGet, "/raffles/{id}/events", h.ListEvents, httptest.NewRequest(http.MethodGet, "/raffles/nope/events", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRaffleHandler_Close(t *testing.T) {
	h := NewRaffleHandler(&raffleServiceStub{
		closeFn: func(ctx context.Context, raffleID string) (*domain.Raffle, error) {
			return &domain.Raffle{ID: raffleID, Status: domain.RaffleStatusEnded}, nil
		},
	})

	rec := serve(http.MethodPost, "/raffles/{id}/close", h.Close, httptest.NewRequest(http.MethodPost, "/raffles/r1/close", nil))

	var resp dto.RaffleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Status != "ended" {
		t.Fatalf("expected ended raffle, got %d %+v", rec.Code, resp)
	}
}
