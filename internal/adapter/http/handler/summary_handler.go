package handler

import (
	"context"
	"net/http"

	"github.com/pmholt/budgeteer/internal/adapter/http/middleware"
	"github.com/pmholt/budgeteer/internal/projection"
)

// SummaryService defines the behavior needed by SummaryHandler.
type SummaryService interface {
	GetSummary(ctx context.Context, ownerID string) (*projection.Summary, error)
}

// SummaryHandler serves the balance projection.
type SummaryHandler struct {
	summaryUC SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryUC SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryUC: summaryUC}
}

// Get computes and returns the owner's balance projection.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	summary, err := h.summaryUC.GetSummary(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
