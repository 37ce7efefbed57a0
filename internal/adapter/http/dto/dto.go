package dto

import "provider-billing/internal/core/domain"

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateAccountRequest is the request body for provider account creation.
type CreateAccountRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AccountResponse is the response body for account operations.
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// AddTeamMemberRequest is the request body for attaching a user to an account.
type AddTeamMemberRequest struct {
	UserID          string `json:"user_id" binding:"required,uuid"`
	PermissionLevel string `json:"permission_level" binding:"required,oneof=ADMIN STAFF USER"`
}

// TeamMemberResponse is the response body for team membership.
type TeamMemberResponse struct {
	ID              string `json:"id"`
	AccountID       string `json:"account_id"`
	UserID          string `json:"user_id"`
	PermissionLevel string `json:"permission_level"`
}

// ChargeCreateRequest is the request body for charge creation.
type ChargeCreateRequest struct {
	PhoneNumberID string `json:"phone_number_id" binding:"required,uuid"`
	AccountID     string `json:"account_id" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// ChargeResponse is the response body for a charge record.
type ChargeResponse struct {
	ID            string `json:"id"`
	PhoneNumberID string `json:"phone_number_id"`
	AccountID     string `json:"account_id"`
	Amount        int64  `json:"amount"`
	CreatedAt     string `json:"created_at"`
}

// DepositCreateRequest is the request body for opening a deposit request.
type DepositCreateRequest struct {
	AccountID  string  `json:"account_id" binding:"required,uuid"`
	Amount     int64   `json:"amount" binding:"required,gt=0"`
	AssigneeID *string `json:"assignee_id,omitempty" binding:"omitempty,uuid"`
}

// DepositStatusRequest is the request body for finalizing a deposit request.
type DepositStatusRequest struct {
	Status  string  `json:"status" binding:"required"`
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=500"`
}

// DepositUpdateRequest is the request body for editing an open deposit request.
type DepositUpdateRequest struct {
	Amount  *int64  `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=500"`
}

// DepositResponse is the response body for a deposit request.
type DepositResponse struct {
	ID         string  `json:"id"`
	AccountID  string  `json:"account_id"`
	Amount     int64   `json:"amount"`
	AssigneeID string  `json:"assignee_id"`
	Status     string  `json:"status"`
	Comment    *string `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// WalletBalanceResponse is the response for a balance query.
type WalletBalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// PhoneNumberCreateRequest is the request body for registering a phone number.
type PhoneNumberCreateRequest struct {
	Number string `json:"number" binding:"required,phone"`
}

// PhoneNumberResponse is the response body for a phone number.
type PhoneNumberResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	IsActive bool   `json:"is_active"`
}

// ToDepositResponse maps a domain deposit request to its wire shape.
func ToDepositResponse(d *domain.DepositRequest) DepositResponse {
	return DepositResponse{
		ID:         d.ID.String(),
		AccountID:  d.AccountID.String(),
		Amount:     d.Amount,
		AssigneeID: d.AssigneeID.String(),
		Status:     string(d.Status),
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  d.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ToChargeResponse maps a domain charge to its wire shape.
func ToChargeResponse(c *domain.Charge) ChargeResponse {
	return ChargeResponse{
		ID:            c.ID.String(),
		PhoneNumberID: c.PhoneNumberID.String(),
		AccountID:     c.AccountID.String(),
		Amount:        c.Amount,
		CreatedAt:     c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
