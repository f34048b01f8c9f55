package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pmholt/budgeteer/internal/adapter/http/dto"
	"github.com/pmholt/budgeteer/internal/adapter/http/middleware"
	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// RecurringService defines the behavior needed by RecurringHandler.
type RecurringService interface {
	CreateRecurring(ctx context.Context, input usecase.CreateRecurringInput) (*domain.Recurring, error)
	GetRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error)
	ListRecurrings(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error)
	UpdateRecurring(ctx context.Context, input usecase.UpdateRecurringInput) (*domain.Recurring, error)
	ArchiveRecurring(ctx context.Context, ownerID, id string) error
	ConfirmRecurring(ctx context.Context, input usecase.ConfirmRecurringInput) (*domain.Transaction, error)
	SkipRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error)
}

// RecurringHandler handles recurring bill and paycheck requests. The /bills
// and /paychecks routes are thin views over the same definitions with the
// kind pinned by the route.
type RecurringHandler struct {
	recurringUC RecurringService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringUC RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringUC: recurringUC}
}

// Create creates a recurring definition; the kind travels in the body.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateRecurringRequest
	if err := dto.DecodeLenient(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	recurring, err := h.recurringUC.CreateRecurring(r.Context(), req.ToUseCaseInput(ownerID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create recurring", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecurringFromDomain(recurring))
}

// CreateWithKind returns a create handler for the /bills and /paychecks
// convenience routes.
func (h *RecurringHandler) CreateWithKind(kind domain.RecurringKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := middleware.OwnerIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}

		var req dto.CreateBillRequest
		if err := dto.DecodeLenient(r.Body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}

		recurring, err := h.recurringUC.CreateRecurring(r.Context(), req.ToUseCaseInput(ownerID, kind))
		if err != nil {
			writeError(w, mapDomainError(err), "failed to create recurring", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, dto.RecurringFromDomain(recurring))
	}
}

// List lists active recurring definitions, optionally filtered by kind.
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.RecurringKind(r.URL.Query().Get("kind")))
}

// ListWithKind returns a list handler with the kind pinned by the route.
func (h *RecurringHandler) ListWithKind(kind domain.RecurringKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, kind)
	}
}

func (h *RecurringHandler) list(w http.ResponseWriter, r *http.Request, kind domain.RecurringKind) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	recurrings, err := h.recurringUC.ListRecurrings(r.Context(), ownerID, kind)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list recurrings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringsFromDomain(recurrings))
}

// Get retrieves a recurring definition by ID.
func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	recurring, err := h.recurringUC.GetRecurring(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get recurring", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringFromDomain(recurring))
}

// Update applies a partial update to a recurring definition.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.UpdateRecurringRequest
	if err := dto.DecodeLenient(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	recurring, err := h.recurringUC.UpdateRecurring(r.Context(), req.ToUseCaseInput(ownerID, chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update recurring", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringFromDomain(recurring))
}

// Archive soft-deletes a recurring definition. Past confirmed transactions
// keep their link to it.
func (h *RecurringHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	if err := h.recurringUC.ArchiveRecurring(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to archive recurring", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Confirm posts a confirmed transaction for the current occurrence and
// advances the anchor when the definition repeats.
func (h *RecurringHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.ConfirmRecurringRequest
	if err := dto.DecodeLenient(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.recurringUC.ConfirmRecurring(r.Context(), req.ToUseCaseInput(ownerID, chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to confirm recurring", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Skip advances past the current occurrence without posting a transaction.
func (h *RecurringHandler) Skip(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	recurring, err := h.recurringUC.SkipRecurring(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to skip recurring", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecurringFromDomain(recurring))
}
