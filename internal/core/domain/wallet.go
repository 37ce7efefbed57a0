package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a provider account's balance in monetary minor units.
// Balance is never negative; it is mutated only by the charge engine
// (debit) and the approved-deposit transition (credit), both under a
// row-level exclusive lock.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhoneNumber is a charge target identifier.
type PhoneNumber struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
