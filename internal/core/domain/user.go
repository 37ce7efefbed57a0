package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform identity. Staff-flagged users form the pool of
// eligible deposit reviewers; superusers may act on any open deposit request.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanReviewDeposit reports whether the user may act on the given open request.
func (u *User) CanReviewDeposit(assigneeID uuid.UUID) bool {
	return u.IsSuperuser || u.ID == assigneeID
}
