// internal/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/store"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	orderService   *services.OrderService
}

func NewPaymentHandler(paymentService *services.PaymentService, orderService *services.OrderService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		orderService:   orderService,
	}
}

// CreateIntent prepares a card payment for an existing order.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	result, err := h.paymentService.CreateIntent(order)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotConfigured) {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "PAYMENTS_DISABLED",
				"Card payments are not configured")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, result)
}

type confirmPaymentRequest struct {
	IntentID string `json:"intent_id" validate:"required"`
}

// Confirm verifies the intent with the provider and marks the order paid.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid order id")
		return
	}

	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	succeeded, err := h.paymentService.ConfirmPayment(req.IntentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotConfigured) {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "PAYMENTS_DISABLED",
				"Card payments are not configured")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}
	if !succeeded {
		utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_INCOMPLETE",
			"Payment has not succeeded yet")
		return
	}

	order, err := h.orderService.MarkPaid(c.Request.Context(), id, req.IntentID)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, order)
}
