package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited ledger event.
type AuditAction string

const (
	AuditActionChargeCreated   AuditAction = "CHARGE_CREATED"
	AuditActionDepositCreated  AuditAction = "DEPOSIT_CREATED"
	AuditActionDepositApproved AuditAction = "DEPOSIT_APPROVED"
	AuditActionDepositRejected AuditAction = "DEPOSIT_REJECTED"
	AuditActionDepositUpdated  AuditAction = "DEPOSIT_UPDATED"
	AuditActionDepositDeleted  AuditAction = "DEPOSIT_DELETED"
	AuditActionLogin           AuditAction = "LOGIN"
)

// AuditLog records a single accepted transition. Entries are emitted
// post-commit; the history subsystem consuming them stays outside the core.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *uuid.UUID  `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time   `json:"created_at"`
}
