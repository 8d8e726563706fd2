// internal/catalog/engine.go

// Package catalog implements the storefront product browser: conjunctive
// facet filtering, capacity-aware sorting and fixed-size pagination over an
// in-memory snapshot of the active product list. Everything here is pure;
// handlers load the snapshot and this package never touches the database.
package catalog

import (
	"sort"
	"strings"

	"github.com/edark-import/marketplace-backend/internal/models"
)

type Facet string

const (
	FacetCategory    Facet = "category"
	FacetSubcategory Facet = "subcategory"
	FacetBrand       Facet = "brand"
	FacetCapacity    Facet = "capacity"
	FacetModel       Facet = "model"
	FacetDimension   Facet = "dimension"
)

// AllFacets lists every filterable attribute in display order.
var AllFacets = []Facet{
	FacetCategory,
	FacetSubcategory,
	FacetBrand,
	FacetCapacity,
	FacetModel,
	FacetDimension,
}

const DefaultPageSize = 12

type SortKey string

const (
	SortDefault      SortKey = ""
	SortPriceAsc     SortKey = "price-asc"
	SortPriceDesc    SortKey = "price-desc"
	SortNameAsc      SortKey = "name-asc"
	SortNameDesc     SortKey = "name-desc"
	SortCapacityAsc  SortKey = "capacity-asc"
	SortCapacityDesc SortKey = "capacity-desc"
	SortNewest       SortKey = "newest"
)

// FilterState is the complete browsing state for one request. Selected maps
// each facet to the chosen values; facets with no entry are unconstrained.
type FilterState struct {
	Selected map[Facet][]string
	PriceMin *float64
	PriceMax *float64
	Query    string
	Sort     SortKey
	Page     int
	PageSize int
}

// FacetValue is one selectable option with the number of currently matching
// products. Selected values stay listed even when their count drops to zero,
// otherwise the user could never untick them.
type FacetValue struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

type View struct {
	Items      []models.Product       `json:"items"`
	TotalCount int                    `json:"total_count"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
	Facets     map[Facet][]FacetValue `json:"facets"`
	PriceMin   float64                `json:"price_min"`
	PriceMax   float64                `json:"price_max"`

	// Subcategories grouped under their parent category, for the nested
	// filter checkboxes.
	Subcategories map[string][]string `json:"subcategories"`
}

func facetValue(p *models.Product, f Facet) string {
	switch f {
	case FacetCategory:
		return p.Category
	case FacetSubcategory:
		return p.Subcategory
	case FacetBrand:
		return p.Brand
	case FacetCapacity:
		return p.Capacity
	case FacetModel:
		return p.Model
	case FacetDimension:
		return p.Dimension
	}
	return ""
}

func (s FilterState) selectedSet(f Facet) map[string]bool {
	values := s.Selected[f]
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// matchesFacets reports whether the product satisfies every facet selection,
// optionally ignoring one facet (used for availability computation).
func (s FilterState) matchesFacets(p *models.Product, ignore Facet) bool {
	for _, f := range AllFacets {
		if f == ignore {
			continue
		}
		set := s.selectedSet(f)
		if set == nil {
			continue
		}
		if !set[facetValue(p, f)] {
			return false
		}
	}
	return true
}

func (s FilterState) matchesQuery(p *models.Product) bool {
	query := strings.TrimSpace(strings.ToLower(s.Query))
	if query == "" {
		return true
	}
	haystacks := []string{
		p.Name, p.Category, p.Subcategory, p.Brand, p.Capacity,
		p.Model, p.Dimension, p.Specifications, p.Description, p.SKU,
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), query) {
			return true
		}
	}
	return false
}

func (s FilterState) matchesPrice(p *models.Product) bool {
	if s.PriceMin != nil && p.Price < *s.PriceMin {
		return false
	}
	if s.PriceMax != nil && p.Price > *s.PriceMax {
		return false
	}
	return true
}

// ComputeView runs the full browse pipeline over a product snapshot. Only
// active products participate; the snapshot itself is never mutated, so the
// same snapshot and state always produce the same view.
func ComputeView(snapshot []models.Product, state FilterState) View {
	if state.PageSize <= 0 {
		state.PageSize = DefaultPageSize
	}

	active := make([]*models.Product, 0, len(snapshot))
	for i := range snapshot {
		if snapshot[i].Active {
			active = append(active, &snapshot[i])
		}
	}

	// Full match set: all facets, query and price conjunctively.
	matched := make([]*models.Product, 0, len(active))
	for _, p := range active {
		if state.matchesFacets(p, "") && state.matchesQuery(p) && state.matchesPrice(p) {
			matched = append(matched, p)
		}
	}

	view := View{
		TotalCount:    len(matched),
		PageSize:      state.PageSize,
		Facets:        computeFacets(active, state),
		Subcategories: subcategoriesByCategory(active),
	}
	view.PriceMin, view.PriceMax = priceBounds(active, state)

	sortProducts(matched, state.Sort)

	// Clamp the page into range instead of returning an empty page.
	view.TotalPages = (len(matched) + state.PageSize - 1) / state.PageSize
	page := state.Page
	if page < 1 {
		page = 1
	}
	if view.TotalPages > 0 && page > view.TotalPages {
		page = view.TotalPages
	}
	view.Page = page

	start := (page - 1) * state.PageSize
	end := start + state.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	view.Items = make([]models.Product, 0, end-start)
	for _, p := range matched[start:end] {
		view.Items = append(view.Items, *p)
	}

	return view
}

// computeFacets builds the availability map. Each facet's options come from
// the products matching every OTHER facet plus query and price, so picking a
// brand narrows the capacity list but never hides the other brands.
// Subcategory options are additionally scoped to the selected categories.
func computeFacets(active []*models.Product, state FilterState) map[Facet][]FacetValue {
	facets := make(map[Facet][]FacetValue, len(AllFacets))
	categorySet := state.selectedSet(FacetCategory)

	for _, f := range AllFacets {
		counts := make(map[string]int)
		for _, p := range active {
			if !state.matchesFacets(p, f) || !state.matchesQuery(p) || !state.matchesPrice(p) {
				continue
			}
			if f == FacetSubcategory && categorySet != nil && !categorySet[p.Category] {
				continue
			}
			if v := facetValue(p, f); v != "" {
				counts[v]++
			}
		}

		// Keep selected values visible even at zero matches.
		selected := state.selectedSet(f)
		for v := range selected {
			if _, ok := counts[v]; !ok {
				counts[v] = 0
			}
		}

		values := make([]FacetValue, 0, len(counts))
		for v, count := range counts {
			values = append(values, FacetValue{
				Value:    v,
				Count:    count,
				Selected: selected[v],
			})
		}

		if f == FacetCapacity {
			sort.SliceStable(values, func(i, j int) bool {
				return ParseCapacity(values[i].Value) < ParseCapacity(values[j].Value)
			})
		} else {
			sort.SliceStable(values, func(i, j int) bool {
				return values[i].Value < values[j].Value
			})
		}
		facets[f] = values
	}

	return facets
}

func subcategoriesByCategory(active []*models.Product) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, p := range active {
		if p.Category == "" || p.Subcategory == "" {
			continue
		}
		if seen[p.Category] == nil {
			seen[p.Category] = make(map[string]bool)
		}
		seen[p.Category][p.Subcategory] = true
	}

	out := make(map[string][]string, len(seen))
	for category, subs := range seen {
		values := make([]string, 0, len(subs))
		for sub := range subs {
			values = append(values, sub)
		}
		sort.Strings(values)
		out[category] = values
	}
	return out
}

// priceBounds spans the products matching facets and query but not the price
// filter itself, so the slider keeps its full extent while dragging.
func priceBounds(active []*models.Product, state FilterState) (float64, float64) {
	var min, max float64
	first := true
	for _, p := range active {
		if !state.matchesFacets(p, "") || !state.matchesQuery(p) {
			continue
		}
		if first {
			min, max = p.Price, p.Price
			first = false
			continue
		}
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max
}

func sortProducts(products []*models.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) > strings.ToLower(products[j].Name)
		})
	case SortCapacityAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return ParseCapacity(products[i].Capacity) < ParseCapacity(products[j].Capacity)
		})
	case SortCapacityDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return ParseCapacity(products[i].Capacity) > ParseCapacity(products[j].Capacity)
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	case SortDefault:
		// Keep the snapshot's order; the loader decides the default ordering.
	}
}
