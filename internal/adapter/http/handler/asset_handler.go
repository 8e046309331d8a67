package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/usecase"
)

// AssetService defines the behavior needed by AssetHandler.
type AssetService interface {
	RegisterAsset(ctx context.Context, input usecase.RegisterAssetInput) (*domain.PrizeAsset, error)
	GetAsset(ctx context.Context, id string) (*domain.PrizeAsset, error)
	ListAssetsByOwner(ctx context.Context, owner string, limit, offset int) ([]*domain.PrizeAsset, error)
}

// AssetHandler handles prize asset HTTP requests.
type AssetHandler struct {
	assetUC AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetUC AssetService) *AssetHandler {
	return &AssetHandler{assetUC: assetUC}
}

// Register mints a prize asset.
func (h *AssetHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	asset, err := h.assetUC.RegisterAsset(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to register asset", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AssetFromDomain(asset))
}

// Get retrieves an asset by ID.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetUC.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get asset", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetFromDomain(asset))
}

// ListByOwner lists the assets held by ?owner=, defaulting to the caller.
func (h *AssetHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		caller, ok := callerFrom(w, r)
		if !ok {
			return
		}
		owner = caller.ID
	}

	assets, err := h.assetUC.ListAssetsByOwner(r.Context(), owner, parseIntQuery(r, "limit", 20), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list assets", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetsFromDomain(assets))
}
