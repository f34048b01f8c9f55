package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pmholt/budgeteer/internal/adapter/http/dto"
	"github.com/pmholt/budgeteer/internal/domain"
)

type userServiceStub struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, string, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.User, string, error)
}

func (s *userServiceStub) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	return s.registerFn(ctx, username, password)
}

func (s *userServiceStub) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, username, password)
}

func TestAuthHandler_Register(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return &domain.User{ID: "user-1", Username: username}, "tok-1", nil
		},
	})

	body := `{"username":"alex","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "tok-1" || resp.User.Username != "alex" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrDuplicateUsername
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{"username":"alex","password":"supersecret"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&userServiceStub{
		loginFn: func(ctx context.Context, username, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"alex","password":"wrong"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "invalid credentials" {
		t.Fatalf("expected generic message, got %q", resp.Message)
	}
}
