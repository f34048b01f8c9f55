package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc   func(ctx context.Context, account *domain.Account) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc  func(ctx context.Context, ownerID, id string) (*domain.Account, error)
	ListFunc     func(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error)
	UpdateFunc   func(ctx context.Context, account *domain.Account) error
	UpdateTxFunc func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	ArchiveFunc  func(ctx context.Context, ownerID, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	return m.Create(ctx, account)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.OwnerID == ownerID {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, includeArchived)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.OwnerID != ownerID {
			continue
		}
		if acc.Archived && !includeArchived {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateTxFunc != nil {
		return m.UpdateTxFunc(ctx, tx, account)
	}
	return m.Update(ctx, account)
}

func (m *MockAccountRepository) Archive(ctx context.Context, ownerID, id string) error {
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, ownerID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}
	acc.Archived = true
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc        func(ctx context.Context, transaction *domain.Transaction) error
	CreateTxFunc      func(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error
	GetByIDFunc       func(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	ListFunc          func(ctx context.Context, ownerID string, limit int) ([]*domain.Transaction, error)
	ListByAccountFunc func(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error)
	UpdateFunc        func(ctx context.Context, transaction *domain.Transaction) error
	DeleteFunc        func(ctx context.Context, ownerID, id string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[transaction.ID] = transaction
	return nil
}

func (m *MockTransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, transaction)
	}
	return m.Create(ctx, transaction)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok && txn.OwnerID == ownerID {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, ownerID string, limit int) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transactions []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.OwnerID != ownerID {
			continue
		}
		transactions = append(transactions, txn)
		if limit > 0 && len(transactions) == limit {
			break
		}
	}
	return transactions, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, ownerID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transactions []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.OwnerID == ownerID && txn.AccountID == accountID {
			transactions = append(transactions, txn)
		}
	}
	return transactions, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[transaction.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[transaction.ID] = transaction
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok || txn.OwnerID != ownerID {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

// MockRecurringRepository is a mock implementation of RecurringRepository.
type MockRecurringRepository struct {
	mu         sync.RWMutex
	recurrings map[string]*domain.Recurring

	CreateFunc        func(ctx context.Context, recurring *domain.Recurring) error
	GetByIDFunc       func(ctx context.Context, ownerID, id string) (*domain.Recurring, error)
	ListFunc          func(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error)
	UpdateFunc        func(ctx context.Context, recurring *domain.Recurring) error
	ArchiveFunc       func(ctx context.Context, ownerID, id string) error
	AdvanceAnchorFunc func(ctx context.Context, tx usecase.Transaction, ownerID, id string, from, to domain.Date) error
}

func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		recurrings: make(map[string]*domain.Recurring),
	}
}

func (m *MockRecurringRepository) Create(ctx context.Context, recurring *domain.Recurring) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, recurring)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recurrings[recurring.ID] = recurring
	return nil
}

func (m *MockRecurringRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ownerID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.recurrings[id]; ok && r.OwnerID == ownerID {
		copied := *r
		return &copied, nil
	}
	return nil, domain.ErrRecurringNotFound
}

func (m *MockRecurringRepository) List(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, kind)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var recurrings []*domain.Recurring
	for _, r := range m.recurrings {
		if r.OwnerID != ownerID || r.Archived {
			continue
		}
		if kind != "" && r.Kind != kind {
			continue
		}
		recurrings = append(recurrings, r)
	}
	return recurrings, nil
}

func (m *MockRecurringRepository) Update(ctx context.Context, recurring *domain.Recurring) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, recurring)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recurrings[recurring.ID]; !ok {
		return domain.ErrRecurringNotFound
	}
	m.recurrings[recurring.ID] = recurring
	return nil
}

func (m *MockRecurringRepository) Archive(ctx context.Context, ownerID, id string) error {
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, ownerID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recurrings[id]
	if !ok || r.OwnerID != ownerID {
		return domain.ErrRecurringNotFound
	}
	r.Archived = true
	return nil
}

func (m *MockRecurringRepository) AdvanceAnchor(ctx context.Context, tx usecase.Transaction, ownerID, id string, from, to domain.Date) error {
	if m.AdvanceAnchorFunc != nil {
		return m.AdvanceAnchorFunc(ctx, tx, ownerID, id, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recurrings[id]
	if !ok || r.OwnerID != ownerID {
		return domain.ErrRecurringNotFound
	}
	if !r.AnchorDate.Equal(from) {
		return domain.ErrAnchorConflict
	}
	r.AnchorDate = to
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	m.users[user.Username] = user
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockTransaction is a mock database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock transaction manager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator returns sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockRetrier runs the operation a fixed number of times, stopping on
// success. The default is three attempts, enough for conflict tests.
type MockRetrier struct {
	MaxAttempts int

	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	attempts := m.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

// MockCache is an in-memory cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// MockTokenGenerator issues a fixed token.
type MockTokenGenerator struct {
	Token string

	GenerateFunc func(user *domain.User) (string, error)
}

func (m *MockTokenGenerator) Generate(user *domain.User) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(user)
	}
	if m.Token != "" {
		return m.Token, nil
	}
	return "token-" + user.ID, nil
}
