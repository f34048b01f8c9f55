package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// TransactionRepository implements transaction persistence.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const insertTransactionQuery = `
	INSERT INTO transactions (id, owner_id, account_id, recurring_id, date, amount, type, status, description, created_at, updated_at)
	VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
`

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	_, err := r.pool.Exec(ctx, insertTransactionQuery, transactionArgs(transaction)...)
	return err
}

// CreateTx inserts a new transaction within a database transaction.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	_, err := pgxTxOf(tx).Exec(ctx, insertTransactionQuery, transactionArgs(transaction)...)
	return err
}

func transactionArgs(transaction *domain.Transaction) []any {
	return []any{
		transaction.ID,
		transaction.OwnerID,
		transaction.AccountID,
		transaction.RecurringID,
		transaction.Date,
		transaction.Amount,
		transaction.Type,
		transaction.Status,
		transaction.Description,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	}
}

const selectTransactionColumns = `
	id, owner_id, COALESCE(account_id, ''), recurring_id, date, amount, type, status, description, created_at, updated_at
`

// GetByID retrieves a transaction by ID, scoped to the owner.
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE owner_id = $1 AND id = $2
	`

	transaction, err := scanTransaction(r.pool.QueryRow(ctx, query, ownerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, err
}

// List returns the owner's transactions, newest first. A limit of zero means
// no limit.
func (r *TransactionRepository) List(ctx context.Context, ownerID string, limit int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE owner_id = $1
		ORDER BY date DESC, created_at DESC
	`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByAccount returns an account's transactions, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, ownerID, accountID string) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE owner_id = $1 AND account_id = $2
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update rewrites a transaction's mutable fields.
func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = NULLIF($3, ''), date = $4, amount = $5, type = $6, status = $7, description = $8, updated_at = $9
		WHERE owner_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		transaction.OwnerID,
		transaction.ID,
		transaction.AccountID,
		transaction.Date,
		transaction.Amount,
		transaction.Type,
		transaction.Status,
		transaction.Description,
		transaction.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM transactions WHERE owner_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction
	err := row.Scan(
		&transaction.ID,
		&transaction.OwnerID,
		&transaction.AccountID,
		&transaction.RecurringID,
		&transaction.Date,
		&transaction.Amount,
		&transaction.Type,
		&transaction.Status,
		&transaction.Description,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
