package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// AssetServiceInterface defines the service contract for asset operations.
type AssetServiceInterface interface {
	List(ctx context.Context, includeInactive bool) ([]model.Asset, error)
	Create(ctx context.Context, input service.AssetInput) (*model.Asset, error)
	Update(ctx context.Context, id string, input service.AssetInput) (*model.Asset, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AssetHandler handles HTTP requests for asset operations.
type AssetHandler struct {
	service AssetServiceInterface
}

func NewAssetHandler(service AssetServiceInterface) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	assets, err := h.service.List(r.Context(), includeInactive)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, assets)
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.AssetInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	asset, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid asset ID"))
		return
	}

	var input service.AssetInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	asset, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// Delete removes or deactivates an asset. The body reports which of the
// two happened so the client can explain it.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid asset ID"))
		return
	}

	deactivated, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"deactivated": deactivated})
}
