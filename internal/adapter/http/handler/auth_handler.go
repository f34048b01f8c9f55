package handler

import (
	"context"
	"net/http"

	"github.com/pmholt/budgeteer/internal/adapter/http/dto"
	"github.com/pmholt/budgeteer/internal/domain"
)

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	userUC UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userUC UserService) *AuthHandler {
	return &AuthHandler{userUC: userUC}
}

// Register creates a new user and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := dto.DecodeLenient(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, token, err := h.userUC.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, mapDomainError(err), "registration failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthFromDomain(user, token))
}

// Login authenticates a user and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := dto.DecodeLenient(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, token, err := h.userUC.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// Never leak whether the username or the password was wrong.
		writeError(w, mapDomainError(err), "login failed", "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthFromDomain(user, token))
}
