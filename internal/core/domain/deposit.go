package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DepositStatus is the lifecycle state of a deposit request.
type DepositStatus string

const (
	DepositStatusOpen     DepositStatus = "OPEN"
	DepositStatusApproved DepositStatus = "APPROVED"
	DepositStatusRejected DepositStatus = "REJECTED"
)

// IsTerminal reports whether the status is APPROVED or REJECTED.
func (s DepositStatus) IsTerminal() bool {
	return s == DepositStatusApproved || s == DepositStatusRejected
}

// ParseDepositStatus normalizes and validates a status string.
func ParseDepositStatus(raw string) (DepositStatus, bool) {
	switch DepositStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case DepositStatusOpen:
		return DepositStatusOpen, true
	case DepositStatusApproved:
		return DepositStatusApproved, true
	case DepositStatusRejected:
		return DepositStatusRejected, true
	default:
		return "", false
	}
}

// DepositRequest is a credit proposal for a provider wallet.
// Lifecycle: OPEN -> APPROVED | REJECTED. Terminal requests are
// permanently immutable and undeletable.
type DepositRequest struct {
	ID          uuid.UUID     `json:"id"`
	RequesterID uuid.UUID     `json:"requester_id"` // team member
	AccountID   uuid.UUID     `json:"account_id"`
	UserID      uuid.UUID     `json:"user_id"` // requester's user
	Amount      int64         `json:"amount"`
	AssigneeID  uuid.UUID     `json:"assignee_id"` // reviewer user
	Status      DepositStatus `json:"status"`
	Comment     *string       `json:"comment,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsFinalized reports whether the request reached a terminal state.
func (d *DepositRequest) IsFinalized() bool {
	return d.Status.IsTerminal()
}
