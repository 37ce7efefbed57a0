package handler

import (
	"provider-billing/internal/adapter/http/dto"
	"provider-billing/internal/adapter/http/middleware"
	"provider-billing/internal/core/domain"
	"provider-billing/internal/core/ports"
	"provider-billing/pkg/apperror"
	"provider-billing/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DepositHandler handles deposit request endpoints.
type DepositHandler struct {
	depositSvc ports.DepositService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositSvc ports.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

// Create handles POST /api/v1/deposits.
func (h *DepositHandler) Create(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accountID, _ := uuid.Parse(req.AccountID)
	var assigneeID *uuid.UUID
	if req.AssigneeID != nil {
		id, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid assignee id"))
			return
		}
		assigneeID = &id
	}

	deposit, err := h.depositSvc.Create(c.Request.Context(), ports.CreateDepositRequest{
		RequesterUserID: actorID,
		AccountID:       accountID,
		Amount:          req.Amount,
		AssigneeID:      assigneeID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToDepositResponse(deposit))
}

// Get handles GET /api/v1/deposits/:id.
func (h *DepositHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid deposit id"))
		return
	}

	deposit, err := h.depositSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToDepositResponse(deposit))
}

// SetStatus handles PATCH /api/v1/deposits/:id/status.
func (h *DepositHandler) SetStatus(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid deposit id"))
		return
	}

	var req dto.DepositStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	status, ok := domain.ParseDepositStatus(req.Status)
	if !ok {
		response.Error(c, apperror.ErrInvalidStatus(req.Status))
		return
	}

	deposit, err := h.depositSvc.SetStatus(c.Request.Context(), actorID, id, status, req.Comment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToDepositResponse(deposit))
}

// Update handles PUT /api/v1/deposits/:id.
func (h *DepositHandler) Update(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid deposit id"))
		return
	}

	var req dto.DepositUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	deposit, err := h.depositSvc.Update(c.Request.Context(), actorID, id, ports.UpdateDepositRequest{
		Amount:  req.Amount,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ToDepositResponse(deposit))
}

// Delete handles DELETE /api/v1/deposits/:id.
func (h *DepositHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid deposit id"))
		return
	}

	if err := h.depositSvc.Delete(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
