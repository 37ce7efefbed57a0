package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a provider account funded through its wallet.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PermissionLevel is the account-scoped role of a team member.
type PermissionLevel string

const (
	// PermissionAdmin may create deposit requests and charges.
	PermissionAdmin PermissionLevel = "ADMIN"
	// PermissionStaff may create charges only.
	PermissionStaff PermissionLevel = "STAFF"
	// PermissionUser is read-only.
	PermissionUser PermissionLevel = "USER"
)

// CanCharge reports whether the level permits creating charges.
func (p PermissionLevel) CanCharge() bool {
	return p == PermissionAdmin || p == PermissionStaff
}

// CanRequestDeposit reports whether the level permits creating deposit requests.
func (p PermissionLevel) CanRequestDeposit() bool {
	return p == PermissionAdmin
}

// TeamMember links a user to a provider account with a permission level.
// One user maps to at most one team member.
type TeamMember struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	UserID          uuid.UUID       `json:"user_id"`
	PermissionLevel PermissionLevel `json:"permission_level"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
