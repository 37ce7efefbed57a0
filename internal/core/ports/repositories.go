package ports

import (
	"context"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

// AccountRepository defines persistence operations for provider accounts.
// Create runs inside a transaction so the wallet row can be created atomically
// alongside the account.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks; GetByAccountIDForUpdate
// takes the row-level exclusive lock that serializes same-account mutations.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.Wallet, error)
	GetByAccountIDForUpdate(ctx context.Context, tx pgx.Tx, accountID uuid.UUID) (*domain.Wallet, error)
	SetBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error
}

// TeamMemberRepository defines persistence operations for account team members.
type TeamMemberRepository interface {
	Create(ctx context.Context, member *domain.TeamMember) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.TeamMember, error)
}

// PhoneNumberRepository defines persistence operations for phone numbers.
type PhoneNumberRepository interface {
	Create(ctx context.Context, number *domain.PhoneNumber) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PhoneNumber, error)
}

// ChargeRepository defines persistence operations for charge records.
// Charges are insert-only; there is deliberately no update or delete.
type ChargeRepository interface {
	Create(ctx context.Context, tx pgx.Tx, charge *domain.Charge) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Charge, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// DepositRepository defines persistence operations for deposit requests.
// GetByIDForUpdate re-reads the persisted row under lock so finalization checks
// never trust a caller-supplied in-memory copy.
type DepositRepository interface {
	Create(ctx context.Context, deposit *domain.DepositRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DepositRequest, error)
	Update(ctx context.Context, tx pgx.Tx, deposit *domain.DepositRequest) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// UserRepository defines persistence operations for platform users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListEligibleReviewers returns all staff-flagged users.
	ListEligibleReviewers(ctx context.Context) ([]domain.User, error)
}

// AuditRepository defines persistence for post-commit audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
