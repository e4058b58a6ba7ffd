package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// PendingServiceInterface defines the service contract for the pending
// review queue.
type PendingServiceInterface interface {
	List(ctx context.Context) ([]model.Transaction, error)
	Resolve(ctx context.Context, id string, input service.ResolveInput) (*model.Transaction, error)
}

// PendingHandler handles HTTP requests for imported transactions waiting
// for categorization.
type PendingHandler struct {
	service PendingServiceInterface
}

func NewPendingHandler(service PendingServiceInterface) *PendingHandler {
	return &PendingHandler{service: service}
}

func (h *PendingHandler) List(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pending)
}

func (h *PendingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid transaction ID"))
		return
	}

	var input service.ResolveInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	tx, err := h.service.Resolve(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tx)
}
