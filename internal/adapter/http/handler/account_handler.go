package handler

import (
	"provider-billing/internal/adapter/http/dto"
	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports"
	"provider-billing/pkg/apperror"
	"provider-billing/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles provider account administration endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	account, err := h.accountSvc.CreateAccount(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.AccountResponse{
		ID:        account.ID.String(),
		Name:      account.Name,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// AddTeamMember handles POST /api/v1/accounts/:id/members.
func (h *AccountHandler) AddTeamMember(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	var req dto.AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	userID, _ := uuid.Parse(req.UserID)

	member, err := h.accountSvc.AddTeamMember(c.Request.Context(), accountID, userID, domain.PermissionLevel(req.PermissionLevel))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TeamMemberResponse{
		ID:              member.ID.String(),
		AccountID:       member.AccountID.String(),
		UserID:          member.UserID.String(),
		PermissionLevel: string(member.PermissionLevel),
	})
}

// RegisterPhoneNumber handles POST /api/v1/phone-numbers.
func (h *AccountHandler) RegisterPhoneNumber(c *gin.Context) {
	var req dto.PhoneNumberCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	phone, err := h.accountSvc.RegisterPhoneNumber(c.Request.Context(), req.Number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PhoneNumberResponse{
		ID:       phone.ID.String(),
		Number:   phone.Number,
		IsActive: phone.IsActive,
	})
}
