package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pmholt/budgeteer/internal/adapter/http/handler"
	apimiddleware "github.com/pmholt/budgeteer/internal/adapter/http/middleware"
	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/infrastructure/auth"
	"github.com/pmholt/budgeteer/internal/projection"
	"github.com/pmholt/budgeteer/internal/usecase"
)

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	return &domain.User{ID: "user-1", Username: username}, "tok", nil
}

func (stubUserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	return &domain.User{ID: "user-1", Username: username}, "tok", nil
}

type stubAccountService struct{}

func (stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc-1"}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (stubAccountService) ListAccounts(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error) {
	return nil, nil
}

func (stubAccountService) UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: input.ID}, nil
}

func (stubAccountService) ArchiveAccount(ctx context.Context, ownerID, id string) error {
	return nil
}

func (stubAccountService) AccountSummaries(ctx context.Context, ownerID string) ([]usecase.AccountSummary, error) {
	return nil, nil
}

type stubTransactionService struct{}

func (stubTransactionService) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1"}, nil
}

func (stubTransactionService) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return &domain.Transaction{ID: id}, nil
}

func (stubTransactionService) UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: input.ID}, nil
}

func (stubTransactionService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	return nil
}

func (stubTransactionService) ListByAccount(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error) {
	return nil, nil
}

func (stubTransactionService) ListLedger(ctx context.Context, ownerID string, limit int) ([]usecase.LedgerEntry, error) {
	return nil, nil
}

type stubRecurringService struct{}

func (stubRecurringService) CreateRecurring(ctx context.Context, input usecase.CreateRecurringInput) (*domain.Recurring, error) {
	return &domain.Recurring{ID: "rec-1", Kind: input.Kind}, nil
}

func (stubRecurringService) GetRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	return &domain.Recurring{ID: id}, nil
}

func (stubRecurringService) ListRecurrings(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error) {
	return nil, nil
}

func (stubRecurringService) UpdateRecurring(ctx context.Context, input usecase.UpdateRecurringInput) (*domain.Recurring, error) {
	return &domain.Recurring{ID: input.ID}, nil
}

func (stubRecurringService) ArchiveRecurring(ctx context.Context, ownerID, id string) error {
	return nil
}

func (stubRecurringService) ConfirmRecurring(ctx context.Context, input usecase.ConfirmRecurringInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "txn-1"}, nil
}

func (stubRecurringService) SkipRecurring(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	return &domain.Recurring{ID: id}, nil
}

type stubSummaryService struct{}

func (stubSummaryService) GetSummary(ctx context.Context, ownerID string) (*projection.Summary, error) {
	return &projection.Summary{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func newRouterConfig(overrides ...func(*RouterConfig)) RouterConfig {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	cfg := RouterConfig{
		AuthHandler:        handler.NewAuthHandler(stubUserService{}),
		AccountHandler:     handler.NewAccountHandler(stubAccountService{}),
		TransactionHandler: handler.NewTransactionHandler(stubTransactionService{}),
		RecurringHandler:   handler.NewRecurringHandler(stubRecurringService{}),
		SummaryHandler:     handler.NewSummaryHandler(stubSummaryService{}),
		JWTManager:         jwtManager,
		Logger:             zerolog.Nop(),
	}
	for _, o := range overrides {
		o(&cfg)
	}

	return cfg
}

func bearerFor(t *testing.T, jwtManager *auth.JWTManager) string {
	t.Helper()
	token, err := jwtManager.Generate(&domain.User{ID: "user-1", Username: "alex"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	return "Bearer " + token
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	cfg := newRouterConfig()
	cfg.HealthHandler = handler.NewHealthHandler(nil, nil)
	router := NewRouter(cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ProtectedRoutesRequireToken(t *testing.T) {
	cfg := newRouterConfig()
	cfg.HealthHandler = handler.NewHealthHandler(nil, nil)
	router := NewRouter(cfg)

	paths := []string{"/api/accounts", "/api/transactions", "/api/recurrings", "/api/summary", "/api/accounts-summary"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected %s to require auth, got %d", path, rec.Code)
		}
	}
}

func TestNewRouter_BearerTokenGrantsAccess(t *testing.T) {
	cfg := newRouterConfig()
	cfg.HealthHandler = handler.NewHealthHandler(nil, nil)
	router := NewRouter(cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg.JWTManager))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_LoginRateLimited(t *testing.T) {
	cfg := newRouterConfig()
	cfg.HealthHandler = handler.NewHealthHandler(nil, nil)
	cfg.LoginLimiter = apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(cfg)

	body := `{"username":"alex","password":"supersecret"}`

	req1 := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first login to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second login to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	cfg := newRouterConfig()
	cfg.HealthHandler = handler.NewHealthHandler(nil, nil)
	cfg.IdempotencyStore = store
	router := NewRouter(cfg)

	body := `{"name":"checking","displayName":"Main","type":"Checking","initialBalance":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, cfg.JWTManager))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatal("expected idempotency store to be used")
	}
}
