// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationParams struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Sort    string `json:"sort"`
	Order   string `json:"order"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return PaginationParams{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
		Order:   order,
	}
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ApplySort restricts ordering to a whitelist of sortable columns.
func ApplySort(query *gorm.DB, params PaginationParams, allowedSorts map[string]string) *gorm.DB {
	column, ok := allowedSorts[params.Sort]
	if !ok {
		column = "created_at"
	}
	return query.Order(column + " " + params.Order)
}

func ApplyPagination(query *gorm.DB, params PaginationParams) *gorm.DB {
	return query.Offset(params.Offset()).Limit(params.PerPage)
}

func CreatePaginationMeta(params PaginationParams, total int64) *Meta {
	totalPages := int(math.Ceil(float64(total) / float64(params.PerPage)))
	return &Meta{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
