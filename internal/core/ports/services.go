package ports

import (
	"context"
	"time"

	"provider-billing/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

// --- Service Ports (Business Logic) ---

// WalletService is the wallet store surface exposed to collaborators.
type WalletService interface {
	// GetBalance returns the current balance for the account's wallet.
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
	// Adjust applies delta to the wallet balance as one atomic unit.
	// Concurrent adjustments on the same account serialize; a negative delta
	// that would take the balance below zero fails with InsufficientFunds and
	// leaves the balance unchanged.
	Adjust(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error)
}

// ChargeRequest holds validated input for charge creation.
// UserID is the explicit actor; there is no ambient request context.
type ChargeRequest struct {
	PhoneNumberID uuid.UUID
	AccountID     uuid.UUID
	UserID        uuid.UUID
	Amount        int64
}

// ChargeService is the charge engine.
type ChargeService interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*domain.Charge, error)
}

// CreateDepositRequest holds validated input for deposit request creation.
type CreateDepositRequest struct {
	RequesterUserID uuid.UUID
	AccountID       uuid.UUID
	Amount          int64
	AssigneeID      *uuid.UUID // nil = pick via assignment selector
}

// UpdateDepositRequest holds the mutable fields of an open deposit request.
type UpdateDepositRequest struct {
	Amount  *int64
	Comment *string
}

// DepositService drives the deposit request state machine.
type DepositService interface {
	Create(ctx context.Context, req CreateDepositRequest) (*domain.DepositRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error)
	// SetStatus transitions an open request to APPROVED or REJECTED.
	// Approval credits the wallet exactly once, in the same transaction.
	SetStatus(ctx context.Context, actorUserID uuid.UUID, id uuid.UUID, status domain.DepositStatus, comment *string) (*domain.DepositRequest, error)
	Update(ctx context.Context, actorUserID uuid.UUID, id uuid.UUID, req UpdateDepositRequest) (*domain.DepositRequest, error)
	Delete(ctx context.Context, actorUserID uuid.UUID, id uuid.UUID) error
}

// AssigneeSelector picks a reviewer for a new deposit request.
type AssigneeSelector interface {
	// SelectAssignee chooses uniformly at random among eligible staff
	// reviewers. Fails with NoEligibleAssignee if the pool is empty.
	SelectAssignee(ctx context.Context) (*domain.User, error)
}

// AccountService administers provider accounts and their membership.
type AccountService interface {
	// CreateAccount creates an account and its zero-balance wallet atomically.
	CreateAccount(ctx context.Context, name string) (*domain.Account, error)
	AddTeamMember(ctx context.Context, accountID, userID uuid.UUID, level domain.PermissionLevel) (*domain.TeamMember, error)
	// RegisterPhoneNumber adds a chargeable phone number to the platform.
	RegisterPhoneNumber(ctx context.Context, number string) (*domain.PhoneNumber, error)
}

// AuthService authenticates platform users for the thin HTTP adapter.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
	CreateUser(ctx context.Context, username, password string, isStaff, isSuperuser bool) (*domain.User, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID   uuid.UUID
	Username string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// AuditService is the post-commit hook for accepted transitions. The core
// emits events; history storage lives outside it.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// BalanceCache is the Redis-layer read cache for wallet balances.
type BalanceCache interface {
	// Get returns the cached balance; ok is false on a miss.
	Get(ctx context.Context, accountID uuid.UUID) (balance int64, ok bool, err error)
	Set(ctx context.Context, accountID uuid.UUID, balance int64, ttl time.Duration) error
	// Invalidate drops the cached balance after a committed mutation.
	Invalidate(ctx context.Context, accountID uuid.UUID) error
}
