// internal/handlers/order.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/store"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
	db           *gorm.DB
}

func NewOrderHandler(orderService *services.OrderService, db *gorm.DB) *OrderHandler {
	return &OrderHandler{orderService: orderService, db: db}
}

// Place is the public checkout endpoint.
func (h *OrderHandler) Place(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		var stockErr *services.StockError
		switch {
		case errors.As(err, &stockErr):
			if len(stockErr.Items) == 0 {
				utils.ErrorResponse(c, http.StatusConflict, "STOCK_CHANGED",
					"Stock changed while placing the order, please retry")
				return
			}
			details := make([]gin.H, 0, len(stockErr.Items))
			for _, item := range stockErr.Items {
				details = append(details, gin.H{
					"product":   item.ProductName,
					"requested": item.Requested,
					"available": item.Available,
				})
			}
			utils.ErrorResponseWithDetails(c, http.StatusConflict, "INSUFFICIENT_STOCK",
				"One or more products do not have enough stock", details)
		case errors.Is(err, store.ErrProductNotFound):
			utils.NotFoundResponse(c, "Product")
		case errors.Is(err, services.ErrInvalidPaymentMethod):
			utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_PAYMENT_METHOD", "Unknown payment method")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.CreatedResponse(c, order)
}

func (h *OrderHandler) Get(c *gin.Context) {
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

	utils.SuccessResponse(c, order)
}

// UpdateStatus moves an order through its lifecycle.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid order id")
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrInvalidTransition):
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "INVALID_TRANSITION",
				"Order cannot move to the requested status")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, order)
}

// List is the admin order listing with optional status and search filters.
func (h *OrderHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	query := h.db.Model(&models.Order{}).Preload("Items")

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status")
			return
		}
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ?",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	allowedSorts := map[string]string{
		"created_at": "created_at",
		"total":      "total",
		"status":     "status",
	}
	query = utils.ApplySort(query, params, allowedSorts)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponseWithMeta(c, orders, utils.CreatePaginationMeta(params, total))
}
