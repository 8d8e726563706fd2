// internal/handlers/catalog.go
package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edark-import/marketplace-backend/internal/catalog"
	"github.com/edark-import/marketplace-backend/internal/config"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type CatalogHandler struct {
	productService *services.ProductService
	storeCfg       config.StoreConfig
}

func NewCatalogHandler(productService *services.ProductService, storeCfg config.StoreConfig) *CatalogHandler {
	return &CatalogHandler{
		productService: productService,
		storeCfg:       storeCfg,
	}
}

// View computes the storefront browse page: filtered, sorted and paginated
// products plus the facet availability map. Facet query params take repeated
// or comma-separated values, e.g. ?brand=Kingston&brand=Samsung or
// ?brand=Kingston,Samsung.
func (h *CatalogHandler) View(c *gin.Context) {
	snapshot, err := h.productService.ActiveSnapshot()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	state := catalog.FilterState{
		Selected: map[catalog.Facet][]string{},
		Query:    c.Query("q"),
		Sort:     catalog.SortKey(c.Query("sort")),
		PageSize: h.storeCfg.PageSize,
	}

	for _, facet := range catalog.AllFacets {
		values := facetValues(c, string(facet))
		if len(values) > 0 {
			state.Selected[facet] = values
		}
	}

	if raw := c.Query("price_min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			state.PriceMin = &v
		}
	}
	if raw := c.Query("price_max"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			state.PriceMax = &v
		}
	}
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			state.Page = v
		}
	}

	view := catalog.ComputeView(snapshot, state)
	utils.SuccessResponse(c, view)
}

func facetValues(c *gin.Context, name string) []string {
	var values []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
