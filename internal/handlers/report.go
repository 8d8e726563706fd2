// internal/handlers/report.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edark-import/marketplace-backend/internal/config"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
	storeCfg      config.StoreConfig
}

func NewReportHandler(reportService *services.ReportService, storeCfg config.StoreConfig) *ReportHandler {
	return &ReportHandler{reportService: reportService, storeCfg: storeCfg}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	report, err := h.reportService.Dashboard(h.storeCfg.LowStockLevel)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, report)
}

// dateRange reads from/to query params, defaulting to the last 30 days.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid from date: %s", raw)
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, fmt.Errorf("invalid to date: %s", raw)
		}
		// Include the whole end day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	return from, to, nil
}

func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}

	rows, err := h.reportService.SalesByPeriod(from, to, c.DefaultQuery("granularity", "day"))
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, rows)
}

func (h *ReportHandler) TopProducts(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.reportService.TopProducts(from, to, limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, rows)
}

func (h *ReportHandler) Inventory(c *gin.Context) {
	rows, err := h.reportService.Inventory()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, rows)
}

func (h *ReportHandler) TopCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.reportService.TopCustomers(limit)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, rows)
}

// ExportOrders streams a CSV download of the orders in the date range.
func (h *ReportHandler) ExportOrders(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}

	filename := fmt.Sprintf("orders_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := h.reportService.ExportOrdersCSV(c.Writer, from, to); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
}

// ExportProducts streams the inventory as a CSV download.
func (h *ReportHandler) ExportProducts(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=products.csv")

	if err := h.reportService.ExportProductsCSV(c.Writer); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
}
