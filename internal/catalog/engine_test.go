// internal/catalog/engine_test.go
package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edark-import/marketplace-backend/internal/models"
)

func makeProduct(name, category, subcategory, brand, capacity string, price float64) models.Product {
	p := models.Product{
		Name:        name,
		Category:    category,
		Subcategory: subcategory,
		Brand:       brand,
		Capacity:    capacity,
		Price:       price,
		Active:      true,
	}
	p.CreatedAt = time.Now()
	return p
}

func testSnapshot() []models.Product {
	return []models.Product{
		makeProduct("SSD Kingston 1TB", "Almacenamiento", "SSD", "Kingston", "1TB", 350),
		makeProduct("SSD Kingston 512GB", "Almacenamiento", "SSD", "Kingston", "512GB", 200),
		makeProduct("SSD Samsung 2048MB", "Almacenamiento", "SSD", "Samsung", "2048MB", 50),
		makeProduct("HDD Seagate 2TB", "Almacenamiento", "HDD", "Seagate", "2TB", 280),
		makeProduct("Laptop HP Gaming", "Laptops", "Gaming", "HP", "", 3500),
		makeProduct("Laptop Lenovo Oficina", "Laptops", "Oficina", "Lenovo", "", 2200),
		makeProduct("Monitor LG Gaming", "Monitores", "Gaming", "LG", "", 1100),
	}
}

func TestComputeViewNoFilters(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{})

	assert.Equal(t, 7, view.TotalCount)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.TotalPages)
	assert.Len(t, view.Items, 7)
}

func TestComputeViewConjunctiveFacets(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{
		Selected: map[Facet][]string{
			FacetCategory: {"Almacenamiento"},
			FacetBrand:    {"Kingston"},
		},
	})

	assert.Equal(t, 2, view.TotalCount)
	for _, item := range view.Items {
		assert.Equal(t, "Almacenamiento", item.Category)
		assert.Equal(t, "Kingston", item.Brand)
	}
}

func TestComputeViewSubcategoryScopedToCategory(t *testing.T) {
	// Selecting Laptops + Gaming must not surface the Gaming monitor.
	view := ComputeView(testSnapshot(), FilterState{
		Selected: map[Facet][]string{
			FacetCategory:    {"Laptops"},
			FacetSubcategory: {"Gaming"},
		},
	})

	require.Equal(t, 1, view.TotalCount)
	assert.Equal(t, "Laptop HP Gaming", view.Items[0].Name)

	// The subcategory options only come from the selected category.
	var subcatValues []string
	for _, fv := range view.Facets[FacetSubcategory] {
		subcatValues = append(subcatValues, fv.Value)
	}
	assert.Contains(t, subcatValues, "Gaming")
	assert.Contains(t, subcatValues, "Oficina")
	assert.NotContains(t, subcatValues, "SSD")
}

func TestComputeViewPriceRange(t *testing.T) {
	min, max := 200.0, 400.0
	view := ComputeView(testSnapshot(), FilterState{
		PriceMin: &min,
		PriceMax: &max,
	})

	assert.Equal(t, 3, view.TotalCount)
	for _, item := range view.Items {
		assert.GreaterOrEqual(t, item.Price, min)
		assert.LessOrEqual(t, item.Price, max)
	}
}

func TestComputeViewFreeTextSearch(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{Query: "kingston"})

	assert.Equal(t, 2, view.TotalCount)

	view = ComputeView(testSnapshot(), FilterState{Query: "  LAPTOP  "})
	assert.Equal(t, 2, view.TotalCount)
}

func TestComputeViewSearchCoversAttributeFields(t *testing.T) {
	snapshot := testSnapshot()
	nvme := makeProduct("WD Black SN850X", "Almacenamiento", "SSD", "Western Digital", "512GB", 420)
	nvme.Specifications = "NVMe PCIe 4.0, 7300 MB/s lectura"
	snapshot = append(snapshot, nvme)

	// Each query only matches through a non-name attribute.
	for _, tt := range []struct {
		query string
		want  int
	}{
		{"almacenamiento", 5}, // category only
		{"ssd", 4},            // subcategory, plus names carrying it
		{"512gb", 2},          // capacity, plus one name carrying it
		{"nvme", 1},           // specifications only
	} {
		view := ComputeView(snapshot, FilterState{Query: tt.query})
		assert.Equal(t, tt.want, view.TotalCount, "query %q", tt.query)
	}
}

func TestComputeViewCapacitySortNormalizesUnits(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{
		Selected: map[Facet][]string{FacetSubcategory: {"SSD"}},
		Sort:     SortCapacityAsc,
	})

	require.Len(t, view.Items, 3)
	assert.Equal(t, "2048MB", view.Items[0].Capacity)
	assert.Equal(t, "512GB", view.Items[1].Capacity)
	assert.Equal(t, "1TB", view.Items[2].Capacity)
}

func TestComputeViewDefaultSortPreservesSnapshotOrder(t *testing.T) {
	snapshot := testSnapshot()
	view := ComputeView(snapshot, FilterState{})

	require.Len(t, view.Items, len(snapshot))
	for i := range snapshot {
		assert.Equal(t, snapshot[i].Name, view.Items[i].Name)
	}
}

func TestComputeViewPriceSort(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{Sort: SortPriceAsc})

	require.NotEmpty(t, view.Items)
	for i := 1; i < len(view.Items); i++ {
		assert.LessOrEqual(t, view.Items[i-1].Price, view.Items[i].Price)
	}
}

func TestComputeViewPageClamping(t *testing.T) {
	snapshot := make([]models.Product, 0, 25)
	for i := 0; i < 25; i++ {
		snapshot = append(snapshot,
			makeProduct(fmt.Sprintf("Producto %02d", i), "Accesorios", "", "Generic", "", float64(10+i)))
	}

	// 25 products at 12 per page is 3 pages; page 5 clamps to the last one.
	view := ComputeView(snapshot, FilterState{Page: 5})

	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 3, view.Page)
	assert.Len(t, view.Items, 1)

	view = ComputeView(snapshot, FilterState{Page: 0})
	assert.Equal(t, 1, view.Page)
	assert.Len(t, view.Items, 12)
}

func TestComputeViewEmptyResult(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{Query: "no existe"})

	assert.Equal(t, 0, view.TotalCount)
	assert.Equal(t, 0, view.TotalPages)
	assert.Equal(t, 1, view.Page)
	assert.Empty(t, view.Items)
}

func TestComputeViewFacetAvailability(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{
		Selected: map[Facet][]string{FacetBrand: {"Kingston"}},
	})

	// Other brands remain offered so the user can switch the selection.
	var brands []string
	for _, fv := range view.Facets[FacetBrand] {
		brands = append(brands, fv.Value)
	}
	assert.Contains(t, brands, "Kingston")
	assert.Contains(t, brands, "Samsung")
	assert.Contains(t, brands, "HP")

	// Capacity options narrow to the selected brand's products.
	var capacities []string
	for _, fv := range view.Facets[FacetCapacity] {
		capacities = append(capacities, fv.Value)
	}
	assert.ElementsMatch(t, []string{"1TB", "512GB"}, capacities)
}

func TestComputeViewSelectedValueStaysVisible(t *testing.T) {
	// A selection that no longer matches any product keeps its entry.
	view := ComputeView(testSnapshot(), FilterState{
		Selected: map[Facet][]string{
			FacetBrand: {"Kingston"},
		},
		Query: "seagate",
	})

	var kingston *FacetValue
	for i, fv := range view.Facets[FacetBrand] {
		if fv.Value == "Kingston" {
			kingston = &view.Facets[FacetBrand][i]
		}
	}
	require.NotNil(t, kingston)
	assert.True(t, kingston.Selected)
	assert.Equal(t, 0, kingston.Count)
}

func TestComputeViewSubcategoryMap(t *testing.T) {
	view := ComputeView(testSnapshot(), FilterState{})

	assert.Equal(t, []string{"HDD", "SSD"}, view.Subcategories["Almacenamiento"])
	assert.Equal(t, []string{"Gaming", "Oficina"}, view.Subcategories["Laptops"])
}

func TestComputeViewIgnoresInactiveProducts(t *testing.T) {
	snapshot := testSnapshot()
	snapshot[0].Active = false

	view := ComputeView(snapshot, FilterState{})
	assert.Equal(t, 6, view.TotalCount)
}

func TestComputeViewIsDeterministic(t *testing.T) {
	state := FilterState{
		Selected: map[Facet][]string{FacetCategory: {"Almacenamiento"}},
		Sort:     SortPriceDesc,
	}

	first := ComputeView(testSnapshot(), state)
	second := ComputeView(testSnapshot(), state)

	assert.Equal(t, first.TotalCount, second.TotalCount)
	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Name, second.Items[i].Name)
	}
}
