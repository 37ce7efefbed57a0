package postgres

import (
	"context"
	"errors"
	"fmt"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ChargeRepo implements ports.ChargeRepository. Charge rows are insert-only.
type ChargeRepo struct {
	pool Pool
}

// NewChargeRepo creates a new ChargeRepo.
func NewChargeRepo(pool Pool) *ChargeRepo {
	return &ChargeRepo{pool: pool}
}

// Create inserts a charge record within the given transaction. It shares the
// transaction with the wallet debit: both commit or neither does.
func (r *ChargeRepo) Create(ctx context.Context, tx pgx.Tx, c *domain.Charge) error {
	query := `INSERT INTO charges (id, phone_number_id, account_id, requester_id, user_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		c.ID, c.PhoneNumberID, c.AccountID, c.RequesterID, c.UserID, c.Amount, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert charge: %w", err)
	}
	return nil
}

// GetByID fetches a charge record by its UUID.
func (r *ChargeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Charge, error) {
	query := `SELECT id, phone_number_id, account_id, requester_id, user_id, amount, created_at
		FROM charges WHERE id = $1`

	c := &domain.Charge{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.PhoneNumberID, &c.AccountID, &c.RequesterID, &c.UserID, &c.Amount, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get charge by id: %w", err)
	}
	return c, nil
}

// CountByAccount returns the number of charge records for an account.
func (r *ChargeRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM charges WHERE account_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count charges by account: %w", err)
	}
	return count, nil
}
