package handler

import (
	"context"
	"net/http"

	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/service"
)

// DashboardServiceInterface defines the service contract for dashboard
// aggregation.
type DashboardServiceInterface interface {
	Summary(ctx context.Context, month string) (*service.DashboardSummary, error)
	Gamification(ctx context.Context) (*model.GamificationState, error)
}

// DashboardHandler handles HTTP requests for the dashboard and the
// gamification snapshot.
type DashboardHandler struct {
	service DashboardServiceInterface
}

func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	summary, err := h.service.Summary(r.Context(), month)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *DashboardHandler) Gamification(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Gamification(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}
