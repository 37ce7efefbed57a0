package postgres

import (
	"context"
	"errors"
	"fmt"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TeamMemberRepo implements ports.TeamMemberRepository.
type TeamMemberRepo struct {
	pool Pool
}

// NewTeamMemberRepo creates a new TeamMemberRepo.
func NewTeamMemberRepo(pool Pool) *TeamMemberRepo {
	return &TeamMemberRepo{pool: pool}
}

// Create inserts a new team member. The user_id column carries a UNIQUE
// constraint: one user maps to at most one team member.
func (r *TeamMemberRepo) Create(ctx context.Context, m *domain.TeamMember) error {
	query := `INSERT INTO team_members (id, account_id, user_id, permission_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.AccountID, m.UserID, m.PermissionLevel, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

// GetByUserID fetches the team member for a user.
func (r *TeamMemberRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TeamMember, error) {
	query := `SELECT id, account_id, user_id, permission_level, created_at, updated_at
		FROM team_members WHERE user_id = $1`

	m := &domain.TeamMember{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&m.ID, &m.AccountID, &m.UserID, &m.PermissionLevel, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team member by user id: %w", err)
	}
	return m, nil
}
