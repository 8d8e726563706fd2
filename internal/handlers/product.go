// internal/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edark-import/marketplace-backend/internal/config"
	"github.com/edark-import/marketplace-backend/internal/middleware"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/store"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
	storeCfg       config.StoreConfig
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService, storeCfg config.StoreConfig) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
		storeCfg:       storeCfg,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	var createdBy *uuid.UUID
	if userID, exists := c.Get(middleware.ContextUserID); exists {
		id := userID.(uuid.UUID)
		createdBy = &id
	}

	product, err := h.productService.CreateProduct(&req, createdBy)
	if err != nil {
		if isValidationError(err) {
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid product id")
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid product id")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			utils.NotFoundResponse(c, "Product")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid product id")
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// List is the admin-facing product listing with database-side pagination.
func (h *ProductHandler) List(c *gin.Context) {
	params := services.ProductListParams{
		PaginationParams: utils.GetPaginationParams(c),
		Category:         c.Query("category"),
		Brand:            c.Query("brand"),
		Search:           c.Query("search"),
	}
	if raw := c.Query("price_min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMin = &v
		}
	}
	if raw := c.Query("price_max"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMax = &v
		}
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		params.Active = &active
	}

	products, total, err := h.productService.ListProducts(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponseWithMeta(c, products, utils.CreatePaginationMeta(params.PaginationParams, total))
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	level := h.storeCfg.LowStockLevel
	if raw := c.Query("level"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			level = parsed
		}
	}

	products, err := h.productService.LowStock(level)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, products)
}

// UploadImage receives a multipart image and stores it in S3.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.storageService == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "Image storage is not configured")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "MISSING_FILE", "Image file is required")
		return
	}

	url, err := h.storageService.UploadImage(file, "products")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "UPLOAD_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"url": url})
}
