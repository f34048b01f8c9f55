package usecase

import (
	"context"
	"time"

	"github.com/pmholt/budgeteer/internal/domain"
)

// AccountRepository defines data access for accounts. Every method is scoped
// to an owner; rows belonging to other users are invisible.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error)
	List(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	UpdateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	Archive(ctx context.Context, ownerID, id string) error
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	CreateTx(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	List(ctx context.Context, ownerID string, limit int) ([]*domain.Transaction, error)
	ListByAccount(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error)
	Update(ctx context.Context, transaction *domain.Transaction) error
	Delete(ctx context.Context, ownerID, id string) error
}

// RecurringRepository defines data access for recurring bill/paycheck
// definitions.
type RecurringRepository interface {
	Create(ctx context.Context, recurring *domain.Recurring) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Recurring, error)
	// List returns non-archived recurrings, optionally filtered by kind
	// (empty kind means both).
	List(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error)
	Update(ctx context.Context, recurring *domain.Recurring) error
	Archive(ctx context.Context, ownerID, id string) error
	// AdvanceAnchor moves the anchor date from `from` to `to` as a single
	// conditional update. It returns domain.ErrAnchorConflict when the stored
	// anchor no longer equals `from`, which means a concurrent confirm or
	// skip won the race.
	AdvanceAnchor(ctx context.Context, tx Transaction, ownerID, id string, from, to domain.Date) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// TokenGenerator issues signed auth tokens for a user.
type TokenGenerator interface {
	Generate(user *domain.User) (string, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations, used for the per-user summary cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Clock supplies the current time. Injected so projections and anchor
// advancement are testable with a fixed reference date.
type Clock func() time.Time
