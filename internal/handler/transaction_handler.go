// Package handler implements HTTP handlers for the grana REST API.
// Each handler validates input, delegates to services, and formats responses.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// TransactionServiceInterface defines the service contract for transaction
// operations. This interface enables dependency injection and testability.
type TransactionServiceInterface interface {
	List(ctx context.Context, month string) ([]model.Transaction, error)
	Create(ctx context.Context, input service.TransactionInput) (*model.Transaction, error)
	Update(ctx context.Context, id string, input service.TransactionInput) (*model.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// TransactionHandler handles HTTP requests for transaction operations.
type TransactionHandler struct {
	service TransactionServiceInterface
}

func NewTransactionHandler(service TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List returns transactions, optionally filtered by a month query
// parameter in YYYY-MM form.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	transactions, err := h.service.List(r.Context(), month)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.TransactionInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	tx, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid transaction ID"))
		return
	}

	var input service.TransactionInput
	if err := decodeJSON(r, &input); err != nil {
		respondServiceError(w, err)
		return
	}

	tx, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondAppError(w, apperror.BadRequest("invalid transaction ID"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
