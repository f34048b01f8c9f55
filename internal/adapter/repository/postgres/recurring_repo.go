package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pmholt/budgeteer/internal/domain"
	"github.com/pmholt/budgeteer/internal/usecase"
)

// RecurringRepository implements persistence for recurring bill and
// paycheck definitions.
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new recurring repository.
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

// Create inserts a new recurring definition.
func (r *RecurringRepository) Create(ctx context.Context, recurring *domain.Recurring) error {
	query := `
		INSERT INTO recurrings (id, owner_id, name, kind, estimated_amount, anchor_date, rule, is_recurring, account_id, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		recurring.ID,
		recurring.OwnerID,
		recurring.Name,
		recurring.Kind,
		recurring.EstimatedAmount,
		recurring.AnchorDate,
		recurring.Rule,
		recurring.IsRecurring,
		recurring.AccountID,
		recurring.Archived,
		recurring.CreatedAt,
		recurring.UpdatedAt,
	)
	return err
}

const selectRecurringColumns = `
	id, owner_id, name, kind, estimated_amount, anchor_date, rule, is_recurring, COALESCE(account_id, ''), archived, created_at, updated_at
`

// GetByID retrieves a recurring definition by ID, scoped to the owner.
func (r *RecurringRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Recurring, error) {
	query := `
		SELECT ` + selectRecurringColumns + `
		FROM recurrings
		WHERE owner_id = $1 AND id = $2
	`

	recurring, err := scanRecurring(r.pool.QueryRow(ctx, query, ownerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRecurringNotFound
	}
	return recurring, err
}

// List returns the owner's non-archived definitions ordered by anchor date,
// optionally filtered by kind.
func (r *RecurringRepository) List(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]*domain.Recurring, error) {
	query := `
		SELECT ` + selectRecurringColumns + `
		FROM recurrings
		WHERE owner_id = $1 AND archived = FALSE AND ($2 = '' OR kind = $2)
		ORDER BY anchor_date, name
	`

	rows, err := r.pool.Query(ctx, query, ownerID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recurrings []*domain.Recurring
	for rows.Next() {
		recurring, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		recurrings = append(recurrings, recurring)
	}

	return recurrings, rows.Err()
}

// Update rewrites a definition's mutable fields. The anchor date moves
// through AdvanceAnchor during confirm and skip; a plain update writes it
// unconditionally for edits from the definition form.
func (r *RecurringRepository) Update(ctx context.Context, recurring *domain.Recurring) error {
	query := `
		UPDATE recurrings
		SET name = $3, estimated_amount = $4, anchor_date = $5, rule = $6, is_recurring = $7, account_id = NULLIF($8, ''), updated_at = $9
		WHERE owner_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		recurring.OwnerID,
		recurring.ID,
		recurring.Name,
		recurring.EstimatedAmount,
		recurring.AnchorDate,
		recurring.Rule,
		recurring.IsRecurring,
		recurring.AccountID,
		recurring.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

// Archive soft-deletes a recurring definition.
func (r *RecurringRepository) Archive(ctx context.Context, ownerID, id string) error {
	query := `
		UPDATE recurrings
		SET archived = TRUE, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

// AdvanceAnchor moves the anchor date with a conditional update. Zero rows
// touched means the stored anchor no longer matches: a concurrent confirm or
// skip advanced it first and this occurrence is already settled.
func (r *RecurringRepository) AdvanceAnchor(ctx context.Context, tx usecase.Transaction, ownerID, id string, from, to domain.Date) error {
	query := `
		UPDATE recurrings
		SET anchor_date = $4, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2 AND archived = FALSE AND anchor_date = $3
	`

	tag, err := pgxTxOf(tx).Exec(ctx, query, ownerID, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnchorConflict
	}
	return nil
}

func scanRecurring(row pgx.Row) (*domain.Recurring, error) {
	var recurring domain.Recurring
	err := row.Scan(
		&recurring.ID,
		&recurring.OwnerID,
		&recurring.Name,
		&recurring.Kind,
		&recurring.EstimatedAmount,
		&recurring.AnchorDate,
		&recurring.Rule,
		&recurring.IsRecurring,
		&recurring.AccountID,
		&recurring.Archived,
		&recurring.CreatedAt,
		&recurring.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &recurring, nil
}
