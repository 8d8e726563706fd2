// internal/handlers/ad.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type AdHandler struct {
	adService *services.AdService
}

func NewAdHandler(adService *services.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

func (h *AdHandler) Create(c *gin.Context) {
	var req services.CreateAdSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ad, err := h.adService.CreateAdSpace(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPlacement):
			utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_PLACEMENT", "Unknown ad placement")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.CreatedResponse(c, ad)
}

func (h *AdHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid ad space id")
		return
	}

	var req services.UpdateAdSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ad, err := h.adService.UpdateAdSpace(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdSpaceNotFound):
			utils.NotFoundResponse(c, "Ad space")
		case errors.Is(err, services.ErrInvalidPlacement):
			utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_PLACEMENT", "Unknown ad placement")
		case isValidationError(err):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, ad)
}

func (h *AdHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid ad space id")
		return
	}

	if err := h.adService.DeleteAdSpace(id); err != nil {
		if errors.Is(err, services.ErrAdSpaceNotFound) {
			utils.NotFoundResponse(c, "Ad space")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func (h *AdHandler) List(c *gin.Context) {
	ads, err := h.adService.ListAdSpaces()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, ads)
}

// ByPlacement is public; the storefront asks for the ads of one slot.
func (h *AdHandler) ByPlacement(c *gin.Context) {
	placement := models.AdPlacement(c.Param("placement"))

	ads, err := h.adService.ActiveByPlacement(placement)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPlacement) {
			utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_PLACEMENT", "Unknown ad placement")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, ads)
}

func (h *AdHandler) RecordImpression(c *gin.Context) {
	h.recordEvent(c, h.adService.RecordImpression)
}

func (h *AdHandler) RecordClick(c *gin.Context) {
	h.recordEvent(c, h.adService.RecordClick)
}

func (h *AdHandler) recordEvent(c *gin.Context, record func(uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid ad space id")
		return
	}

	if err := record(id); err != nil {
		if errors.Is(err, services.ErrAdSpaceNotFound) {
			utils.NotFoundResponse(c, "Ad space")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"recorded": true})
}

func (h *AdHandler) Stats(c *gin.Context) {
	stats, err := h.adService.Stats()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, stats)
}
