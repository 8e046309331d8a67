package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

type assetServiceStub struct {
	registerFn func(ctx context.Context, input usecase.RegisterAssetInput) (*domain.PrizeAsset, error)
	getFn      func(ctx context.Context, id string) (*domain.PrizeAsset, error)
	listFn     func(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error)
}

func (s *assetServiceStub) RegisterAsset(ctx context.Context, input usecase.RegisterAssetInput) (*domain.PrizeAsset, error) {
	return s.registerFn(ctx, input)
}

func (s *assetServiceStub) GetAsset(ctx context.Context, id string) (*domain.PrizeAsset, error) {
	return s.getFn(ctx, id)
}

func (s *assetServiceStub) ListAssetsByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error) {
	return s.listFn(ctx, owner, limit, offset)
}

func TestAssetHandler_Register(t *testing.T) {
	handler := NewAssetHandler(&assetServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterAssetInput) (*domain.PrizeAsset, error) {
			return &domain.PrizeAsset{ID: "a1", Name: input.Name, Owner: input.Owner}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/assets", bytes.NewBufferString(`{"name":"Golden Dragon","owner":"alice"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AssetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Owner != "alice" || resp.Name != "Golden Dragon" {
		t.Fatalf("unexpected asset: %+v", resp)
	}
}

func TestAssetHandler_Get_NotFound(t *testing.T) {
	handler := NewAssetHandler(&assetServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.PrizeAsset, error) {
			return nil, domain.ErrAssetNotFound
		},
	})

	rec := serve(http.MethodGet, "/assets/{id}", handler.Get, httptest.NewRequest(http.MethodGet, "/assets/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAssetHandler_ListByOwner_DefaultsToCaller(t *testing.T) {
	var owner string
	handler := NewAssetHandler(&assetServiceStub{
		listFn: func(ctx context.Context, o string, limit, offset int) ([]*domain.PrizeAsset, error) {
			owner = o
			return []*domain.PrizeAsset{}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.ListByOwner(rec, asCaller(httptest.NewRequest(http.MethodGet, "/assets", nil), "carol"))

	if rec.Code != http.StatusOK || owner != "carol" {
		t.Fatalf("expected listing for caller, got status %d owner %q", rec.Code, owner)
	}

	rec = httptest.NewRecorder()
	handler.ListByOwner(rec, asCaller(httptest.NewRequest(http.MethodGet, "/assets?owner=dave", nil), "carol"))

	if owner != "dave" {
		t.Fatalf("expected explicit owner, got %q", owner)
	}
}
