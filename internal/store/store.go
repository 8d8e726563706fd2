// internal/store/store.go
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/edark-import/marketplace-backend/internal/models"
)

// StockAdjustment is a signed delta applied to one product's stock.
// Negative deltas are rejected at the row level when they would drive
// stock below zero.
type StockAdjustment struct {
	ProductID uuid.UUID
	Delta     int
}

// Store is the persistence boundary for order placement. It exists as an
// interface so the placement flow can be exercised against an in-memory
// implementation in tests.
type Store interface {
	// GetProduct returns an active product by id, or ErrProductNotFound.
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// GetProducts returns the active products for the given ids. Missing or
	// inactive ids are simply absent from the result.
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)

	// BatchUpdateStock applies all adjustments atomically. If any single
	// adjustment would drive a product's stock negative, or a product row is
	// missing, nothing is applied and ErrStockConflict is returned.
	BatchUpdateStock(ctx context.Context, adjustments []StockAdjustment) error

	// CreateOrder persists an order together with its items.
	CreateOrder(ctx context.Context, order *models.Order) error

	// GetOrder returns an order with its items, or ErrOrderNotFound.
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)

	// UpdateOrder persists changes to an existing order.
	UpdateOrder(ctx context.Context, order *models.Order) error
}
