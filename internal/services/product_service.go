// internal/services/product_service.go
package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/store"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	SKU            string   `json:"sku" validate:"omitempty,max=100"`
	Description    string   `json:"description" validate:"omitempty,max=5000"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	PurchasePrice  float64  `json:"purchase_price" validate:"omitempty,gte=0"`
	Stock          int      `json:"stock" validate:"gte=0"`
	Category       string   `json:"category" validate:"required,max=100"`
	Subcategory    string   `json:"subcategory" validate:"omitempty,max=100"`
	Brand          string   `json:"brand" validate:"omitempty,max=100"`
	Capacity       string   `json:"capacity" validate:"omitempty,max=50"`
	Model          string   `json:"model" validate:"omitempty,max=100"`
	Dimension      string   `json:"dimension" validate:"omitempty,max=100"`
	Specifications string   `json:"specifications" validate:"omitempty,max=10000"`
	Images         []string `json:"images" validate:"omitempty,max=10,dive,url"`
}

type UpdateProductRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=2,max=255"`
	SKU            *string  `json:"sku" validate:"omitempty,max=100"`
	Description    *string  `json:"description" validate:"omitempty,max=5000"`
	Price          *float64 `json:"price" validate:"omitempty,gt=0"`
	PurchasePrice  *float64 `json:"purchase_price" validate:"omitempty,gte=0"`
	Stock          *int     `json:"stock" validate:"omitempty,gte=0"`
	Category       *string  `json:"category" validate:"omitempty,max=100"`
	Subcategory    *string  `json:"subcategory" validate:"omitempty,max=100"`
	Brand          *string  `json:"brand" validate:"omitempty,max=100"`
	Capacity       *string  `json:"capacity" validate:"omitempty,max=50"`
	Model          *string  `json:"model" validate:"omitempty,max=100"`
	Dimension      *string  `json:"dimension" validate:"omitempty,max=100"`
	Specifications *string  `json:"specifications" validate:"omitempty,max=10000"`
	Images         []string `json:"images" validate:"omitempty,max=10,dive,url"`
	Active         *bool    `json:"active"`
}

func (s *ProductService) CreateProduct(req *CreateProductRequest, createdBy *uuid.UUID) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:           strings.TrimSpace(req.Name),
		SKU:            req.SKU,
		Description:    req.Description,
		Price:          req.Price,
		PurchasePrice:  req.PurchasePrice,
		Stock:          req.Stock,
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		Brand:          req.Brand,
		Capacity:       req.Capacity,
		Model:          req.Model,
		Dimension:      req.Dimension,
		Specifications: req.Specifications,
		Images:         pq.StringArray(req.Images),
		Active:         true,
		CreatedBy:      createdBy,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.PurchasePrice != nil {
		product.PurchasePrice = *req.PurchasePrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Subcategory != nil {
		product.Subcategory = *req.Subcategory
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Capacity != nil {
		product.Capacity = *req.Capacity
	}
	if req.Model != nil {
		product.Model = *req.Model
	}
	if req.Dimension != nil {
		product.Dimension = *req.Dimension
	}
	if req.Specifications != nil {
		product.Specifications = *req.Specifications
	}
	if req.Images != nil {
		product.Images = pq.StringArray(req.Images)
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft deletes; historical order items keep their snapshot.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	result := s.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

type ProductListParams struct {
	utils.PaginationParams
	Category string
	Brand    string
	Search   string
	PriceMin *float64
	PriceMax *float64
	Active   *bool
}

func (s *ProductService) ListProducts(params ProductListParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.Search != "" {
		search := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?",
			search, search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowedSorts := map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
	}
	query = utils.ApplySort(query, params.PaginationParams, allowedSorts)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ActiveSnapshot loads every active product for the storefront browse view.
func (s *ProductService) ActiveSnapshot() ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// LowStock lists active products at or below the given stock level.
func (s *ProductService) LowStock(level int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.Where("active = ? AND stock <= ?", true, level).
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
