package postgres

import (
	"context"
	"errors"
	"fmt"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DepositRepo implements ports.DepositRepository.
type DepositRepo struct {
	pool Pool
}

// NewDepositRepo creates a new DepositRepo.
func NewDepositRepo(pool Pool) *DepositRepo {
	return &DepositRepo{pool: pool}
}

const depositColumns = `id, requester_id, account_id, user_id, amount, assignee_id, status, comment, created_at, updated_at`

func scanDeposit(row pgx.Row) (*domain.DepositRequest, error) {
	d := &domain.DepositRequest{}
	err := row.Scan(
		&d.ID, &d.RequesterID, &d.AccountID, &d.UserID, &d.Amount,
		&d.AssigneeID, &d.Status, &d.Comment, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a new deposit request.
func (r *DepositRepo) Create(ctx context.Context, d *domain.DepositRequest) error {
	query := `INSERT INTO deposit_requests (` + depositColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.RequesterID, d.AccountID, d.UserID, d.Amount,
		d.AssigneeID, d.Status, d.Comment, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deposit request: %w", err)
	}
	return nil
}

// GetByID fetches a deposit request by its UUID (non-locking read).
func (r *DepositRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE id = $1`

	d, err := scanDeposit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit request by id: %w", err)
	}
	return d, nil
}

// GetByIDForUpdate fetches a deposit request with pessimistic locking,
// returning the persisted state rather than any caller-held copy. This MUST
// be called within a transaction; the finalization guard depends on it.
func (r *DepositRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE id = $1 FOR UPDATE`

	d, err := scanDeposit(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit request for update: %w", err)
	}
	return d, nil
}

// Update persists the mutable fields of a deposit request within a
// transaction. Callers hold the row lock taken by GetByIDForUpdate.
func (r *DepositRepo) Update(ctx context.Context, tx pgx.Tx, d *domain.DepositRequest) error {
	query := `UPDATE deposit_requests
		SET amount = $1, assignee_id = $2, status = $3, comment = $4, updated_at = NOW()
		WHERE id = $5`

	tag, err := tx.Exec(ctx, query, d.Amount, d.AssigneeID, d.Status, d.Comment, d.ID)
	if err != nil {
		return fmt.Errorf("update deposit request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit request not found: %s", d.ID)
	}
	return nil
}

// Delete removes a deposit request within a transaction.
func (r *DepositRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `DELETE FROM deposit_requests WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete deposit request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit request not found: %s", id)
	}
	return nil
}
