package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// PlanningServiceInterface defines the service contract for planned item
// operations.
type PlanningServiceInterface interface {
	List(ctx context.Context, typ model.TransactionType, month string) ([]model.PlannedItem, error)
	Create(ctx context.Context, typ model.TransactionType, input service.PlannedItemInput) (*model.PlannedItem, error)
	Update(ctx context.Context, typ model.TransactionType, id string, input service.PlannedItemInput) (*model.PlannedItem, error)
	Delete(ctx context.Context, typ model.TransactionType, id string) error
	Realize(ctx context.Context, typ model.TransactionType, id string, input service.RealizeInput) (*model.Transaction, error)
}

// PlanningHandler handles HTTP requests for one planned item list. Two
// instances are mounted, one for incomes and one for expenses.
type PlanningHandler struct {
	service PlanningServiceInterface
	typ     model.TransactionType
}

func NewPlanningHandler(service PlanningServiceInterface, typ model.TransactionType) *PlanningHandler {
	return &PlanningHandler{service: service, typ: typ}
}

func (h *PlanningHandler) List(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	items, err := h.service.List(r.Context(), h.typ, month)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *PlanningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.PlannedItemInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), h.typ, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *PlanningHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid planned item ID"))
		return
	}

	var input service.PlannedItemInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), h.typ, id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *PlanningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid planned item ID"))
		return
	}

	if err := h.service.Delete(r.Context(), h.typ, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Realize converts a planned item into a realized transaction. The body
// may carry an amount override and is optional.
func (h *PlanningHandler) Realize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid planned item ID"))
		return
	}

	var input service.RealizeInput
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &input); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	tx, err := h.service.Realize(r.Context(), h.typ, id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tx)
}
