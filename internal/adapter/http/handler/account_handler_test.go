package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

type accountServiceStub struct {
	createFn   func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn      func(ctx context.Context, id string) (*domain.Account, error)
	listFn     func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	postingsFn func(ctx context.Context, input usecase.ListPostingsInput) ([]*domain.Posting, error)
	mintFn     func(ctx context.Context, input usecase.MintInput) (*domain.Transfer, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) ListPostings(ctx context.Context, input usecase.ListPostingsInput) ([]*domain.Posting, error) {
	return s.postingsFn(ctx, input)
}

func (s *accountServiceStub) Mint(ctx context.Context, input usecase.MintInput) (*domain.Transfer, error) {
	return s.mintFn(ctx, input)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: input.Owner, Currency: "DRAGON", Balance: decimal.Zero}, nil
		},
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{}`)), "alice")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Owner != "alice" {
		t.Fatalf("expected account for caller, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "alice" || resp.Balance != "0" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Create_ForOtherIdentityNeedsAdmin(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called")
			return nil, nil
		},
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{"owner":"bob"}`)), "alice")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json")), "alice")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_Duplicate(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrAccountExists
		},
	})

	req := asCaller(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{}`)), "alice")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id == "missing" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: id, Balance: decimal.NewFromInt(7)}, nil
		},
	})

	rec := serve(http.MethodGet, "/accounts/{id}", handler.Get, httptest.NewRequest(http.MethodGet, "/accounts/alice", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(http.MethodGet, "/accounts/{id}", handler.Get, httptest.NewRequest(http.MethodGet, "/accounts/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_ServiceError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			return nil, errors.New("db error")
		},
	})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAccountHandler_Mint(t *testing.T) {
	var captured usecase.MintInput
	handler := NewAccountHandler(&accountServiceStub{
		mintFn: func(ctx context.Context, input usecase.MintInput) (*domain.Transfer, error) {
			captured = input
			return &domain.Transfer{ID: "t1", FromAccountID: "issuer", ToAccountID: input.AccountID, Amount: input.Amount}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/alice/mint", bytes.NewBufferString(`{"amount":"100"}`))
	rec := serve(http.MethodPost, "/accounts/{id}/mint", handler.Mint, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "alice" || !captured.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected input: %+v", captured)
	}
}

func TestAccountHandler_ListPostings(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		postingsFn: func(ctx context.Context, input usecase.ListPostingsInput) ([]*domain.Posting, error) {
			return []*domain.Posting{{ID: "p1", AccountID: input.AccountID, Amount: decimal.NewFromInt(-10)}}, nil
		},
	})

	rec := serve(http.MethodGet, "/accounts/{id}/postings", handler.ListPostings, httptest.NewRequest(http.MethodGet, "/accounts/bob/postings", nil))

	var resp []dto.PostingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].AccountID != "bob" || resp[0].Amount != "-10" {
		t.Fatalf("unexpected postings: %+v", resp)
	}
}
