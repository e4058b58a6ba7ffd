package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// CategoryServiceInterface defines the service contract for category
// operations.
type CategoryServiceInterface interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, input service.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id string, input service.CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	service CategoryServiceInterface
}

func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	category, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid category ID"))
		return
	}

	var input service.CategoryInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	category, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid category ID"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
