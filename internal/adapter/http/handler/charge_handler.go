package handler

import (
	"provider-billing/internal/adapter/http/dto"
	"provider-billing/internal/adapter/http/middleware"
	"provider-billing/internal/core/ports"
	"provider-billing/pkg/apperror"
	"provider-billing/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChargeHandler handles charge endpoints.
type ChargeHandler struct {
	chargeSvc ports.ChargeService
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(chargeSvc ports.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeSvc: chargeSvc}
}

// Create handles POST /api/v1/charges. The authenticated user is the actor;
// the service re-derives their account role from storage.
func (h *ChargeHandler) Create(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ChargeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	phoneID, _ := uuid.Parse(req.PhoneNumberID)
	accountID, _ := uuid.Parse(req.AccountID)

	charge, err := h.chargeSvc.CreateCharge(c.Request.Context(), ports.ChargeRequest{
		PhoneNumberID: phoneID,
		AccountID:     accountID,
		UserID:        actorID,
		Amount:        req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToChargeResponse(charge))
}
