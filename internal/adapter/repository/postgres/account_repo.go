package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// AccountRepository implements account persistence.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const insertAccountQuery = `
	INSERT INTO accounts (id, owner_id, name, display_name, category, initial_balance, reset_date, reset_amount, archived, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, insertAccountQuery, accountArgs(account)...)
	return mapAccountError(err)
}

// CreateTx inserts a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	_, err := pgxTxOf(tx).Exec(ctx, insertAccountQuery, accountArgs(account)...)
	return mapAccountError(err)
}

func accountArgs(account *domain.Account) []any {
	return []any{
		account.ID,
		account.OwnerID,
		account.Name,
		account.DisplayName,
		account.Category,
		account.InitialBalance,
		account.ResetDate,
		account.ResetAmount,
		account.Archived,
		account.CreatedAt,
		account.UpdatedAt,
	}
}

const selectAccountColumns = `
	id, owner_id, name, display_name, category, initial_balance, reset_date, reset_amount, archived, created_at, updated_at
`

// GetByID retrieves an account by ID, scoped to the owner.
func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE owner_id = $1 AND id = $2
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, ownerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	return account, err
}

// List returns the owner's accounts ordered by display name. Archived
// accounts are filtered out unless includeArchived is set.
func (r *AccountRepository) List(ctx context.Context, ownerID string, includeArchived bool) ([]*domain.Account, error) {
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE owner_id = $1 AND (archived = FALSE OR $2)
		ORDER BY display_name
	`

	rows, err := r.pool.Query(ctx, query, ownerID, includeArchived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

const updateAccountQuery = `
	UPDATE accounts
	SET name = $3, display_name = $4, category = $5, reset_date = $6, reset_amount = $7, updated_at = $8
	WHERE owner_id = $1 AND id = $2
`

// Update rewrites an account's mutable fields.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	tag, err := r.pool.Exec(ctx, updateAccountQuery, updateAccountArgs(account)...)
	if err != nil {
		return mapAccountError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// UpdateTx rewrites an account's mutable fields within a transaction.
func (r *AccountRepository) UpdateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	tag, err := pgxTxOf(tx).Exec(ctx, updateAccountQuery, updateAccountArgs(account)...)
	if err != nil {
		return mapAccountError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func updateAccountArgs(account *domain.Account) []any {
	return []any{
		account.OwnerID,
		account.ID,
		account.Name,
		account.DisplayName,
		account.Category,
		account.ResetDate,
		account.ResetAmount,
		account.UpdatedAt,
	}
}

// Archive soft-deletes an account.
func (r *AccountRepository) Archive(ctx context.Context, ownerID, id string) error {
	query := `
		UPDATE accounts
		SET archived = TRUE, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var resetDate *domain.Date
	err := row.Scan(
		&account.ID,
		&account.OwnerID,
		&account.Name,
		&account.DisplayName,
		&account.Category,
		&account.InitialBalance,
		&resetDate,
		&account.ResetAmount,
		&account.Archived,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.ResetDate = resetDate
	return &account, nil
}

func mapAccountError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateName
	}
	return err
}
