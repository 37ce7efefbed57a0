package postgres

import (
	"context"
	"errors"
	"fmt"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PhoneNumberRepo implements ports.PhoneNumberRepository.
type PhoneNumberRepo struct {
	pool Pool
}

// NewPhoneNumberRepo creates a new PhoneNumberRepo.
func NewPhoneNumberRepo(pool Pool) *PhoneNumberRepo {
	return &PhoneNumberRepo{pool: pool}
}

// Create inserts a new phone number.
func (r *PhoneNumberRepo) Create(ctx context.Context, p *domain.PhoneNumber) error {
	query := `INSERT INTO phone_numbers (id, number, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Number, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert phone number: %w", err)
	}
	return nil
}

// GetByID fetches a phone number by its UUID.
func (r *PhoneNumberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PhoneNumber, error) {
	query := `SELECT id, number, is_active, created_at, updated_at
		FROM phone_numbers WHERE id = $1`

	p := &domain.PhoneNumber{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Number, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get phone number by id: %w", err)
	}
	return p, nil
}
