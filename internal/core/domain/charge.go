package domain

import (
	"time"

	"github.com/google/uuid"
)

// Charge is the immutable record of a successful wallet debit against a
// phone number. It is created only as part of the debit transaction and
// is never updated or deleted.
type Charge struct {
	ID            uuid.UUID `json:"id"`
	PhoneNumberID uuid.UUID `json:"phone_number_id"`
	AccountID     uuid.UUID `json:"account_id"`
	RequesterID   uuid.UUID `json:"requester_id"` // team member
	UserID        uuid.UUID `json:"user_id"`      // requester's user
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}
